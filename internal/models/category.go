package models

import "slices"

// Well-known column names shared by both source exports.
const (
	ColumnKey          = "链接"
	ColumnCreatedAt    = "创建时间"
	ColumnDescription  = "简介"
	ColumnTags         = "标签"
	ColumnDoubanRating = "豆瓣评分"
	ColumnNeoDBLink    = "NeoDB链接"
	ColumnStatus       = "Status"
	ColumnCover        = "封面"
)

// TimestampLayout is the layout of the [ColumnCreatedAt] column.
const TimestampLayout = "2006-01-02 15:04:05"

// DescriptionSeparator separates the parts of a [ColumnDescription] value.
const DescriptionSeparator = " / "

// TransferFields lists the columns copied from the secondary export onto the primary one, in order.
var TransferFields = []string{ColumnTags, ColumnDoubanRating, ColumnDescription, ColumnNeoDBLink}

// Kind is the media type a [Category] groups.
type Kind int

const (
	KindMovie Kind = iota
	KindMusic
	KindGame
	KindBook
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindMusic:
		return "music"
	case KindGame:
		return "game"
	case KindBook:
		return "book"
	default:
		return ""
	}
}

// Category groups several statuses into one worksheet.
type Category struct {
	Name     string   // Worksheet name of the merged category
	Kind     Kind     // Media type
	Statuses []string // Status worksheet names, in merge order
	Fields   []string // Structured columns split out of the description
}

var categories = []Category{
	{
		Name:     "看过",
		Kind:     KindMovie,
		Statuses: []string{"看过", "在看", "想看"},
		Fields:   []string{"年代", "制片国家/地区", "类型", "导演", "演员"},
	},
	{
		Name:     "听过",
		Kind:     KindMusic,
		Statuses: []string{"听过", "在听", "想听"},
		Fields:   []string{"表演者", "发行时间"},
	},
	{
		Name:     "玩过",
		Kind:     KindGame,
		Statuses: []string{"玩过", "在玩", "想玩"},
		Fields:   []string{"类型", "平台", "发行时间"},
	},
	{
		Name:     "读过",
		Kind:     KindBook,
		Statuses: []string{"读过", "在读", "想读"},
		Fields:   []string{"作者", "出版日期", "出版社"},
	},
}

// Categories returns the fixed category table in processing order.
//
// The returned slice is a copy; the table itself never changes at runtime.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{
			Name:     c.Name,
			Kind:     c.Kind,
			Statuses: slices.Clone(c.Statuses),
			Fields:   slices.Clone(c.Fields),
		}
	}
	return out
}

// LookupCategory finds a category by its worksheet name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range Categories() {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryForStatus finds the category a status worksheet rolls up into.
func CategoryForStatus(status string) (Category, bool) {
	for _, c := range Categories() {
		if slices.Contains(c.Statuses, status) {
			return c, true
		}
	}
	return Category{}, false
}

// FileName returns the CSV file name for the category, e.g. "zout_final_看过.csv".
func (c Category) FileName(prefix string) string {
	return prefix + c.Name + ".csv"
}
