// card/card.go
package card

// Category 卡牌类别
type Category string

const (
	CategoryPath     Category = "path"
	CategoryRockfall Category = "rockfall"
	CategoryBreak    Category = "break"
	CategoryRepair   Category = "repair"
)

// Direction indexes the four tunnel edges of a tile.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all four directions in board-walk order.
var Directions = [4]Direction{North, East, South, West}

// Opposite returns the facing direction on the adjacent tile.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Connectors 表示一张通道牌的四向开口
type Connectors struct {
	North bool `json:"north"`
	East  bool `json:"east"`
	South bool `json:"south"`
	West  bool `json:"west"`
}

// Open reports whether the connector in direction d is open.
func (c *Connectors) Open(d Direction) bool {
	switch d {
	case North:
		return c.North
	case East:
		return c.East
	case South:
		return c.South
	default:
		return c.West
	}
}

// Rotate applies steps quarter-turn rotations to a connector set and returns
// the rotated copy. Each turn maps north←west, east←north, south←east,
// west←south. Non-path cards have no connectors; nil passes through as nil.
func Rotate(c *Connectors, steps int) *Connectors {
	if c == nil {
		return nil
	}
	out := *c
	steps = ((steps % 4) + 4) % 4
	for i := 0; i < steps; i++ {
		out = Connectors{
			North: out.West,
			East:  out.North,
			South: out.East,
			West:  out.South,
		}
	}
	return &out
}

// Definition 静态卡牌定义
type Definition struct {
	Key        string
	Category   Category
	Connectors *Connectors // only path cards carry a shape
}

// Catalog holds every card definition keyed by card key.
var Catalog = map[string]Definition{
	"path_cross":    {Key: "path_cross", Category: CategoryPath, Connectors: &Connectors{North: true, East: true, South: true, West: true}},
	"path_ew":       {Key: "path_ew", Category: CategoryPath, Connectors: &Connectors{East: true, West: true}},
	"path_ns":       {Key: "path_ns", Category: CategoryPath, Connectors: &Connectors{North: true, South: true}},
	"path_ne":       {Key: "path_ne", Category: CategoryPath, Connectors: &Connectors{North: true, East: true}},
	"path_nw":       {Key: "path_nw", Category: CategoryPath, Connectors: &Connectors{North: true, West: true}},
	"path_se":       {Key: "path_se", Category: CategoryPath, Connectors: &Connectors{South: true, East: true}},
	"path_sw":       {Key: "path_sw", Category: CategoryPath, Connectors: &Connectors{South: true, West: true}},
	"path_t_east":   {Key: "path_t_east", Category: CategoryPath, Connectors: &Connectors{North: true, East: true, South: true}},
	"path_t_west":   {Key: "path_t_west", Category: CategoryPath, Connectors: &Connectors{North: true, South: true, West: true}},
	"rockfall":      {Key: "rockfall", Category: CategoryRockfall},
	"tool_break":    {Key: "tool_break", Category: CategoryBreak},
	"tool_repair":   {Key: "tool_repair", Category: CategoryRepair},
}

// TemplateEntry is one line of the fixed deck composition.
type TemplateEntry struct {
	Key   string
	Count int
}

// DeckTemplate 固定牌库模板: 44 通道牌 + 5 塌方 + 4 破坏 + 6 修理 = 59
var DeckTemplate = []TemplateEntry{
	{Key: "path_cross", Count: 8},
	{Key: "path_ew", Count: 7},
	{Key: "path_ns", Count: 5},
	{Key: "path_ne", Count: 5},
	{Key: "path_nw", Count: 4},
	{Key: "path_se", Count: 5},
	{Key: "path_sw", Count: 4},
	{Key: "path_t_east", Count: 3},
	{Key: "path_t_west", Count: 3},
	{Key: "rockfall", Count: 5},
	{Key: "tool_break", Count: 4},
	{Key: "tool_repair", Count: 6},
}

// DeckSize is the total number of instances a fresh deck contains.
const DeckSize = 59
