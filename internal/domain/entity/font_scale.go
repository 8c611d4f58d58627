package entity

// FontScale 封面字号的十五级离散刻度
var FontScale = [15]float64{10, 12, 14, 16, 18, 20, 24, 28, 32, 36, 42, 48, 56, 64, 72}

// FontIndexMin 最小字号索引
const FontIndexMin = 0

// FontIndexMax 最大字号索引
const FontIndexMax = len(FontScale) - 1

// ClampFontIndex 将字号索引夹取到刻度范围内
func ClampFontIndex(idx int) int {
	if idx < FontIndexMin {
		return FontIndexMin
	}
	if idx > FontIndexMax {
		return FontIndexMax
	}
	return idx
}

// baseFontIndex 按字段内容长度确定基准字号索引，内容越长字号越小
func baseFontIndex(field FieldName, value string) int {
	n := len([]rune(value))
	switch field {
	case FieldJournalName:
		switch {
		case n <= 8:
			return 13
		case n <= 14:
			return 12
		case n <= 20:
			return 11
		case n <= 28:
			return 10
		default:
			return 9
		}
	case FieldTitle:
		switch {
		case n <= 40:
			return 10
		case n <= 80:
			return 9
		case n <= 120:
			return 8
		case n <= 180:
			return 7
		default:
			return 6
		}
	case FieldAuthors:
		switch {
		case n <= 40:
			return 6
		case n <= 80:
			return 5
		default:
			return 4
		}
	case FieldTag:
		return 5
	case FieldDate, FieldVolumeInfo, FieldWebsite:
		return 4
	case FieldFooter:
		return 3
	case FieldDOI:
		return 2
	default:
		return 4
	}
}

// FontIndexFor 字段的有效字号索引：基准索引加用户偏移后夹取
func FontIndexFor(field FieldName, m CoverMetadata, offsets FontOffsetMap) int {
	value, _ := m.Field(field)
	return ClampFontIndex(baseFontIndex(field, value) + offsets.Get(field))
}

// FontSizeFor 字段的有效字号值
func FontSizeFor(field FieldName, m CoverMetadata, offsets FontOffsetMap) float64 {
	return FontScale[FontIndexFor(field, m, offsets)]
}
