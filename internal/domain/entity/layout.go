package entity

// GroupKey 可拖拽的文字分组键
type GroupKey string

const (
	GroupHeader  GroupKey = "header"
	GroupMeta    GroupKey = "meta"
	GroupTag     GroupKey = "tag"
	GroupContent GroupKey = "content"
)

// 位置百分比允许的范围，负值允许部分移出画布
const (
	PositionMin = -10.0
	PositionMax = 100.0
)

// Position 画布百分比坐标
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutState 四个文字分组的画布位置
// 独立于生成图像，重新生成或润色不会改变布局
type LayoutState struct {
	Header  Position `json:"header"`
	Meta    Position `json:"meta"`
	Tag     Position `json:"tag"`
	Content Position `json:"content"`
}

// DefaultLayout 返回期刊封面式的默认排布
func DefaultLayout() LayoutState {
	return LayoutState{
		Header:  Position{X: 5, Y: 3},
		Meta:    Position{X: 5, Y: 14},
		Tag:     Position{X: 5, Y: 38},
		Content: Position{X: 5, Y: 62},
	}
}

// ClampPercent 将坐标限制在 [PositionMin, PositionMax]
func ClampPercent(v float64) float64 {
	if v < PositionMin {
		return PositionMin
	}
	if v > PositionMax {
		return PositionMax
	}
	return v
}

// Clamp 返回限制在合法范围内的位置
func (p Position) Clamp() Position {
	return Position{X: ClampPercent(p.X), Y: ClampPercent(p.Y)}
}

// Position 返回指定分组的位置
func (l LayoutState) Position(key GroupKey) (Position, bool) {
	switch key {
	case GroupHeader:
		return l.Header, true
	case GroupMeta:
		return l.Meta, true
	case GroupTag:
		return l.Tag, true
	case GroupContent:
		return l.Content, true
	}
	return Position{}, false
}

// WithPosition 返回更新了指定分组位置的新布局，坐标自动收敛到合法范围
func (l LayoutState) WithPosition(key GroupKey, p Position) LayoutState {
	p = p.Clamp()
	switch key {
	case GroupHeader:
		l.Header = p
	case GroupMeta:
		l.Meta = p
	case GroupTag:
		l.Tag = p
	case GroupContent:
		l.Content = p
	}
	return l
}

// CoverGroups 分组的渲染顺序
var CoverGroups = []GroupKey{GroupHeader, GroupMeta, GroupTag, GroupContent}

// GroupFields 返回分组包含的封面字段，顺序即组内堆叠顺序
func GroupFields(key GroupKey) []FieldName {
	switch key {
	case GroupHeader:
		return []FieldName{FieldJournalName}
	case GroupMeta:
		return []FieldName{FieldDate, FieldVolumeInfo, FieldWebsite}
	case GroupTag:
		return []FieldName{FieldTag}
	case GroupContent:
		return []FieldName{FieldTitle, FieldAuthors, FieldFooter, FieldDOI}
	}
	return nil
}
