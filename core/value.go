package core

import "strconv"

// ValueKind 标记单元格值的语义类型。
// 预处理管线只区分三种情况：数值、类别、缺失。
type ValueKind uint8

const (
	// KindMissing 表示缺失值（NA）。零值即缺失，便于安全初始化。
	KindMissing ValueKind = iota
	// KindNumeric 表示数值型（float64）。
	KindNumeric
	// KindCategorical 表示类别型（string）。
	KindCategorical
)

// Value 是数据集中的一个单元格：数值、类别或缺失三者之一。
//
// 设计原则：
//   - 值的类型在构造时确定，不做运行期隐式转换
//   - 缺失是显式状态，不用 NaN / 空字符串之类的哨兵值
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

// NA 返回一个缺失值。
func NA() Value {
	return Value{}
}

// Num 构造数值型 Value。
func Num(v float64) Value {
	return Value{kind: KindNumeric, num: v}
}

// Cat 构造类别型 Value。
func Cat(s string) Value {
	return Value{kind: KindCategorical, str: s}
}

// Kind 返回值的语义类型。
func (v Value) Kind() ValueKind { return v.kind }

// Missing 判断是否为缺失值。
func (v Value) Missing() bool { return v.kind == KindMissing }

// Float 返回数值；仅当 Kind 为 KindNumeric 时有意义。
func (v Value) Float() float64 { return v.num }

// Str 返回类别字符串；仅当 Kind 为 KindCategorical 时有意义。
func (v Value) Str() string { return v.str }

// Key 返回用于分组（分层切分、类别统计）的稳定字符串键。
// 缺失值使用不会与合法类别冲突的内部键。
func (v Value) Key() string {
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindCategorical:
		return v.str
	default:
		return "\x00NA"
	}
}
