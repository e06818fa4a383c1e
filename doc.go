// Package prepkit 是一个表格特征预处理工具包（Preprocessing Kit）。
//
// 设计要点：
// - Pipeline-first: 预处理逻辑通过 Stage 串联（Partition → Relevance → Treatment → Redundancy）
// - Plan-first: 所有统计量在拟合切分上冻结为可序列化的处理计划，应用阶段不再回看数据
// - Stage 可扩展: 自定义 Stage 即可插拔扩展（行过滤、采样等）
package prepkit

import "github.com/rushteam/prepkit/pipeline"

// 轻量 facade：便于用户直接 import "prepkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Stage = pipeline.Stage
type Kind = pipeline.Kind

const (
	KindFilter     = pipeline.KindFilter
	KindPartition  = pipeline.KindPartition
	KindRelevance  = pipeline.KindRelevance
	KindTreatment  = pipeline.KindTreatment
	KindRedundancy = pipeline.KindRedundancy
)
