package core

import (
	"fmt"
	"sort"
)

// ColumnType 声明一列的语义类型（数值或类别）。
type ColumnType uint8

const (
	// Numeric 数值列（float64，可缺失）。
	Numeric ColumnType = iota + 1
	// Categorical 类别列（string，可缺失）。
	Categorical
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column 是 Schema 中的一列声明。
type Column struct {
	Name string
	Type ColumnType
}

// Schema 是数据集的列定义：有序的 列名 → 类型 映射。
// 构造后不可变；所有按名取列都经过 Schema 校验，拼错列名会尽早失败。
type Schema struct {
	columns []Column
	types   map[string]ColumnType
}

// NewSchema 创建 Schema。列名重复或类型非法时返回错误。
func NewSchema(columns ...Column) (*Schema, error) {
	types := make(map[string]ColumnType, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput, "schema: empty column name")
		}
		if c.Type != Numeric && c.Type != Categorical {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
				fmt.Sprintf("schema: column %q has invalid type", c.Name))
		}
		if _, ok := types[c.Name]; ok {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
				fmt.Sprintf("schema: duplicate column %q", c.Name))
		}
		types[c.Name] = c.Type
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Schema{columns: cols, types: types}, nil
}

// Columns 返回所有列名（按声明顺序）。
func (s *Schema) Columns() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Len 返回列数。
func (s *Schema) Len() int { return len(s.columns) }

// Has 判断列是否存在。
func (s *Schema) Has(name string) bool {
	_, ok := s.types[name]
	return ok
}

// Type 返回列类型；列不存在时 ok 为 false。
func (s *Schema) Type(name string) (ColumnType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Predictors 返回除响应列外的全部列名（按声明顺序），即候选预测变量集合。
func (s *Schema) Predictors(response string) []string {
	names := make([]string, 0, len(s.columns))
	for _, c := range s.columns {
		if c.Name == response {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// Dataset 是共享同一 Schema 的有序记录集合，按列存储。
//
// 设计原则：
//   - 构造时校验每个值的 Kind 与列声明一致，之后视为不可变
//   - 各阶段的输出都是新的 Dataset，绝不原地修改输入
type Dataset struct {
	schema  *Schema
	columns map[string][]Value
	n       int
}

// NewDataset 从按列组织的数据创建 Dataset。
// 所有列必须等长，且每个非缺失值的 Kind 必须与 Schema 声明一致。
func NewDataset(schema *Schema, columns map[string][]Value) (*Dataset, error) {
	if schema == nil {
		return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput, "dataset: nil schema")
	}
	n := -1
	data := make(map[string][]Value, schema.Len())
	for _, c := range schema.columns {
		col, ok := columns[c.Name]
		if !ok {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: missing data for column %q", c.Name))
		}
		if n == -1 {
			n = len(col)
		} else if len(col) != n {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: column %q has %d values, want %d", c.Name, len(col), n))
		}
		for i, v := range col {
			if v.Missing() {
				continue
			}
			if (c.Type == Numeric && v.Kind() != KindNumeric) ||
				(c.Type == Categorical && v.Kind() != KindCategorical) {
				return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
					fmt.Sprintf("dataset: column %q row %d: value kind does not match declared type %s", c.Name, i, c.Type))
			}
		}
		cp := make([]Value, len(col))
		copy(cp, col)
		data[c.Name] = cp
	}
	if n == -1 {
		n = 0
	}
	return &Dataset{schema: schema, columns: data, n: n}, nil
}

// Schema 返回数据集的 Schema。
func (d *Dataset) Schema() *Schema { return d.schema }

// Len 返回记录数。
func (d *Dataset) Len() int { return d.n }

// Column 返回一列的全部值。返回的切片为内部存储，调用方不得修改。
func (d *Dataset) Column(name string) ([]Value, error) {
	col, ok := d.columns[name]
	if !ok {
		return nil, NewDomainError(ModuleDataset, ErrorCodeUnknownPredictor,
			fmt.Sprintf("dataset: unknown column %q", name))
	}
	return col, nil
}

// Record 返回第 i 条记录的 列名 → 值 视图（拷贝）。
func (d *Dataset) Record(i int) map[string]Value {
	row := make(map[string]Value, d.schema.Len())
	for name, col := range d.columns {
		row[name] = col[i]
	}
	return row
}

// Select 按记录下标选取子集，保持给定顺序，返回新数据集。
// 下标越界返回 INVALID_INPUT。
func (d *Dataset) Select(indices []int) (*Dataset, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= d.n {
			return nil, NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: record index %d out of range [0, %d)", idx, d.n))
		}
	}
	columns := make(map[string][]Value, d.schema.Len())
	for name, col := range d.columns {
		sub := make([]Value, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		columns[name] = sub
	}
	return &Dataset{schema: d.schema, columns: columns, n: len(indices)}, nil
}

// DropColumns 返回去掉指定列后的新数据集。不存在的列名被忽略。
func (d *Dataset) DropColumns(names ...string) (*Dataset, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]Column, 0, len(d.schema.columns))
	for _, c := range d.schema.columns {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	schema, err := NewSchema(kept...)
	if err != nil {
		return nil, err
	}
	columns := make(map[string][]Value, len(kept))
	for _, c := range kept {
		columns[c.Name] = d.columns[c.Name]
	}
	return &Dataset{schema: schema, columns: columns, n: d.n}, nil
}

// BinaryResponse 校验响应列并返回 0/1 标签。
// 响应列必须存在、全部可观测，且取值仅为 0 或 1。
func (d *Dataset) BinaryResponse(name string) ([]int, error) {
	col, ok := d.columns[name]
	if !ok {
		return nil, NewDomainError(ModuleDataset, ErrorCodeResponseNotBinary,
			fmt.Sprintf("dataset: response column %q not found", name))
	}
	t := d.schema.types[name]
	labels := make([]int, len(col))
	for i, v := range col {
		if v.Missing() {
			return nil, NewDomainError(ModuleDataset, ErrorCodeResponseNotBinary,
				fmt.Sprintf("dataset: response %q has missing value at row %d", name, i))
		}
		switch t {
		case Numeric:
			switch v.Float() {
			case 0:
				labels[i] = 0
			case 1:
				labels[i] = 1
			default:
				return nil, NewDomainError(ModuleDataset, ErrorCodeResponseNotBinary,
					fmt.Sprintf("dataset: response %q has non-binary value %v at row %d", name, v.Float(), i))
			}
		default:
			return nil, NewDomainError(ModuleDataset, ErrorCodeResponseNotBinary,
				fmt.Sprintf("dataset: response %q must be a numeric 0/1 column", name))
		}
	}
	return labels, nil
}

// SortedColumns 返回所有列名的字典序副本，供需要确定性遍历顺序的调用方使用。
func (d *Dataset) SortedColumns() []string {
	names := d.Schema().Columns()
	sort.Strings(names)
	return names
}
