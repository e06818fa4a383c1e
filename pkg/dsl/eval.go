package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/prepkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("row", cel.DynType),
		cel.Variable("response", cel.StringType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是行级表达式解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：row.age > 30.0 / row.income >= 5000.0
//   - 类别：row.region == "north"
//   - 缺失：row.age == null （缺失值以 null 暴露）
//   - 逻辑：row.region == "north" && row.age > 30.0
//
// 示例：
//   - `row.status != "closed"` → 剔除已关闭的记录
//   - `row.y != null` → 仅保留响应列已观测的记录
type Eval struct {
	env  *cel.Env
	prg  cel.Program
	expr string
}

// NewEval 创建一个新的行级解释器并编译表达式。
// 编译结果会被缓存，可以对多行重复调用 EvaluateRow。
func NewEval(expr string) (*Eval, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env error: %v", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Eval{env: env, prg: prg, expr: expr}, nil
}

// Expr 返回原始表达式文本
func (e *Eval) Expr() string { return e.expr }

// EvaluateRow 对单行记录执行表达式，返回布尔结果。
// record 的每个值会被转换为 CEL 原生类型：数值 → double，
// 类别 → string，缺失 → null。
func (e *Eval) EvaluateRow(record map[string]core.Value, response string) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(record, response))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(record map[string]core.Value, response string) map[string]interface{} {
	row := make(map[string]interface{}, len(record))
	for name, v := range record {
		switch v.Kind() {
		case core.KindNumeric:
			row[name] = v.Float()
		case core.KindCategorical:
			row[name] = v.Str()
		default:
			// 缺失值以 null 暴露，表达式可用 row.x == null 判断
			row[name] = nil
		}
	}
	return map[string]interface{}{
		"row":      row,
		"response": response,
	}
}
