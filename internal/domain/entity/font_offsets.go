package entity

// FontOffsetMap 字段名到字号索引偏移量的映射
// 每个字段独立持有自己的偏移，直到显式清除
type FontOffsetMap map[FieldName]int

// Get 返回字段的当前偏移，未设置时为 0
func (f FontOffsetMap) Get(name FieldName) int {
	if f == nil {
		return 0
	}
	return f[name]
}

// With 返回应用了增量后的新映射，原映射不变
func (f FontOffsetMap) With(name FieldName, delta int) FontOffsetMap {
	next := f.Clone()
	next[name] += delta
	return next
}

// Clone 深拷贝映射
func (f FontOffsetMap) Clone() FontOffsetMap {
	next := make(FontOffsetMap, len(f)+1)
	for k, v := range f {
		next[k] = v
	}
	return next
}
