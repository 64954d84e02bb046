package tables

// ArchetypeID names one of the six block archetypes, in rarity order.
type ArchetypeID string

const (
	Dirt    ArchetypeID = "dirt"
	Stone   ArchetypeID = "stone"
	Coal    ArchetypeID = "coal"
	Iron    ArchetypeID = "iron"
	Gold    ArchetypeID = "gold"
	Diamond ArchetypeID = "diamond"
)

// ArchetypeOrder fixes iteration order for deterministic draws.
var ArchetypeOrder = []ArchetypeID{Dirt, Stone, Coal, Iron, Gold, Diamond}

// BlockStats are one archetype's values within a tier band.
type BlockStats struct {
	HP        float64 `yaml:"hp"`
	Armor     float64 `yaml:"armor"`
	XP        float64 `yaml:"xp"`
	Fragments float64 `yaml:"fragments"`
}

// SpawnEntry is one slot of a normalized spawn-probability vector.
type SpawnEntry struct {
	Archetype   ArchetypeID
	Probability float64
}

// Band holds archetype stats and the spawn vector for one depth range.
// A band covers [MinDepth, nextBand.MinDepth).
type Band struct {
	MinDepth int
	Blocks   map[ArchetypeID]BlockStats
	Spawn    []SpawnEntry // normalized, in ArchetypeOrder
}

// rawTables mirrors the YAML schema before validation.
type rawTables struct {
	Bands []rawBand `yaml:"bands"`
}

type rawBand struct {
	MinDepth int                        `yaml:"min_depth"`
	Blocks   map[ArchetypeID]BlockStats `yaml:"blocks"`
	Weights  map[ArchetypeID]float64    `yaml:"weights"`
}
