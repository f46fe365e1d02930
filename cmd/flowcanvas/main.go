// =============================================================================
// FlowCanvas 命令行入口
// =============================================================================
// 画布文件的本地操作工具：校验、格式转换、版本查看与对比
//
// 使用方法:
//
//	flowcanvas validate canvas.json             # 运行发布前校验
//	flowcanvas convert --to yaml canvas.json    # JSON / YAML 互转
//	flowcanvas versions                         # 列出已保存的版本
//	flowcanvas diff <versionA> <versionB>       # 对比两个已保存版本
//	flowcanvas version                          # 显示版本信息
// =============================================================================

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	flowcanvas "github.com/BaSui01/flowcanvas"
	"github.com/BaSui01/flowcanvas/canvas"
	"github.com/BaSui01/flowcanvas/config"
	"github.com/BaSui01/flowcanvas/internal/telemetry"
	"github.com/BaSui01/flowcanvas/store"
)

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(os.Args[2:])
	case "convert":
		runConvert(os.Args[2:])
	case "versions":
		runVersions(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🔍 validate 命令
// =============================================================================

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcanvas validate <canvas.json>")
		os.Exit(1)
	}

	env, err := readEnvelope(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read canvas: %v\n", err)
		os.Exit(1)
	}

	issues := canvas.ValidateForPublish(env.Nodes, env.Credentials)
	if len(issues) == 0 {
		fmt.Println("OK: canvas is publishable")
		return
	}
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue)
	}
	os.Exit(1)
}

// =============================================================================
// 🔄 convert 命令
// =============================================================================

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	to := fs.String("to", "yaml", "Target format: yaml or json")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcanvas convert --to yaml|json <canvas file>")
		os.Exit(1)
	}

	env, err := readEnvelope(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read canvas: %v\n", err)
		os.Exit(1)
	}

	var out string
	switch *to {
	case "yaml":
		out, err = canvas.MarshalEnvelopeYAML(env)
	case "json":
		out, err = canvas.MarshalEnvelope(env)
	default:
		fmt.Fprintf(os.Stderr, "Unknown target format: %s\n", *to)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// =============================================================================
// 📚 versions 与 diff 命令
// =============================================================================

func runVersions(args []string) {
	snaps, _, logger, shutdown := openSnapshotStore(args)
	defer shutdown()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	versions, err := snaps.Versions(ctx)
	if err != nil {
		logger.Fatal("Failed to list versions", zap.Error(err))
	}
	if len(versions) == 0 {
		fmt.Println("No saved versions.")
		return
	}
	for _, v := range versions {
		fmt.Println(v)
	}
}

func runDiff(args []string) {
	snaps, rest, logger, shutdown := openSnapshotStore(args)
	defer shutdown()
	defer logger.Sync()

	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: flowcanvas diff [--config file] <versionA> <versionB>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vd, err := snaps.CompareVersions(ctx, rest[0], rest[1])
	if err != nil {
		logger.Fatal("Failed to compare versions", zap.Error(err))
	}

	fmt.Printf("%s -> %s\n", vd.VersionA, vd.VersionB)
	for _, label := range vd.AddedNodes {
		fmt.Printf("  + %s\n", label)
	}
	for _, label := range vd.RemovedNodes {
		fmt.Printf("  - %s\n", label)
	}
	s := vd.Detail.Summary()
	fmt.Printf("nodes: +%d -%d ~%d\n", s.Added, s.Removed, s.Modified)
}

// =============================================================================
// 🧰 辅助函数
// =============================================================================

// openSnapshotStore 加载配置并打开配置的持久化后端，返回剩余的位置参数
func openSnapshotStore(args []string) (*canvas.SnapshotStore, []string, *zap.Logger, func()) {
	fs := flag.NewFlagSet("store", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}

	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	kv, err := store.New(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	shutdown := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
		if otelProviders != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelProviders.Shutdown(ctx); err != nil {
				logger.Warn("telemetry shutdown failed", zap.Error(err))
			}
		}
	}
	return canvas.NewSnapshotStore(kv, logger, nil), fs.Args(), logger, shutdown
}

func readEnvelope(path string) (canvas.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return canvas.Envelope{}, err
	}
	return canvas.ParseEnvelope(string(data))
}

func printVersion() {
	fmt.Printf("FlowCanvas %s\n", flowcanvas.Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`FlowCanvas - workflow canvas toolkit

Usage:
  flowcanvas validate <canvas.json>            Run publish validation
  flowcanvas convert --to yaml|json <file>     Convert between envelope formats
  flowcanvas versions [--config file]          List saved versions
  flowcanvas diff <versionA> <versionB>        Compare two saved versions
  flowcanvas version                           Show version information
  flowcanvas help                              Show this help`)
}
