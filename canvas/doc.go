/*
Package canvas 提供可视化工作流画布的图编辑引擎。

# 概述

canvas 包实现了 FlowCanvas 的核心编辑模型：节点/边的内存图结构、
线性撤销/重做历史、快照持久化（保存/加载/导出/导入/分享）、
两个快照之间的结构化 Diff，以及模板实例化与子工作流复用两种
组合机制。所有组合操作在克隆时重新生成 ID 并重映射边端点，
保证重复应用不会产生 ID 冲突或悬空边。

# 核心类型

  - Node / Edge / Snapshot — 图模型与不可变快照
  - EqualNodes / EqualEdges — 固定字段投影上的结构化相等
  - History                — 快照数组 + 游标的线性撤销栈
  - Diff / SnapshotDiff    — O(n+e) 的 added/removed/modified 分类
  - Template / TemplateCatalog — 模板目录与隔离实例化
  - SubWorkflow / SubWorkflowRegistry — 子工作流登记与应用
  - ValidateForPublish     — 发布前的结构与凭据校验（仅建议，不强制）
  - SnapshotStore          — 基于 store.KV 的快照持久化与版本列表
  - Editor                 — 对渲染层暴露的唯一门面

# 错误语义

只有 ErrParse 会传播为用户可见错误；组合过程中的引用完整性问题
（过期的子工作流 ID、未映射的模板端点）一律静默降级，绝不中断编辑。
*/
package canvas
