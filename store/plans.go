package store

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/treatment"
)

// PlanStore 基于 core.Store 持久化处理计划。
// 键布局：
//   - plan:<name>:<version> → 计划 JSON
//   - plan:<name>:latest    → 最新版本号
//
// 典型用法：拟合环境 Save，打分环境 Load（version 为空时取最新）。
type PlanStore struct {
	store core.Store
}

func NewPlanStore(s core.Store) *PlanStore {
	return &PlanStore{store: s}
}

// Save 序列化并写入计划，同时更新 latest 指针。
// 计划元数据中的 Name 不能为空。
func (ps *PlanStore) Save(ctx context.Context, plan *treatment.Plan) error {
	meta := plan.Metadata()
	if meta.Name == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "plan store: plan name is empty")
	}
	version := meta.Version
	if version == "" {
		version = "v1"
	}

	data, err := treatment.Marshal(plan)
	if err != nil {
		return err
	}

	kvs := map[string][]byte{
		planKey(meta.Name, version): data,
		latestKey(meta.Name):        []byte(version),
	}
	return ps.store.BatchSet(ctx, kvs)
}

// Load 读取并反序列化计划。version 为空时解析 latest 指针。
// 计划不存在时返回 core.ErrStoreNotFound。
func (ps *PlanStore) Load(ctx context.Context, name, version string) (*treatment.Plan, error) {
	if version == "" {
		v, err := ps.store.Get(ctx, latestKey(name))
		if err != nil {
			return nil, err
		}
		version = string(v)
	}

	data, err := ps.store.Get(ctx, planKey(name, version))
	if err != nil {
		return nil, err
	}
	return treatment.Unmarshal(data)
}

// Delete 删除指定版本的计划。latest 指针不动，指向已删除版本时 Load 会返回 not found。
func (ps *PlanStore) Delete(ctx context.Context, name, version string) error {
	return ps.store.Delete(ctx, planKey(name, version))
}

func planKey(name, version string) string { return "plan:" + name + ":" + version }
func latestKey(name string) string        { return "plan:" + name + ":latest" }
