package tables

// Default returns the built-in progression tables: four tier bands over the
// first four hundred floors, with harder stats and richer spawns per band.
func Default() (*Tables, error) {
	band := func(minDepth int, blocks map[ArchetypeID]BlockStats, weights map[ArchetypeID]float64) (Band, error) {
		spawn, err := normalizeSpawn(weights)
		if err != nil {
			return Band{}, err
		}
		return Band{MinDepth: minDepth, Blocks: blocks, Spawn: spawn}, nil
	}

	defs := []struct {
		minDepth int
		blocks   map[ArchetypeID]BlockStats
		weights  map[ArchetypeID]float64
	}{
		{
			minDepth: 0,
			blocks: map[ArchetypeID]BlockStats{
				Dirt:  {HP: 20, Armor: 0, XP: 1, Fragments: 0},
				Stone: {HP: 40, Armor: 2, XP: 3, Fragments: 1},
				Coal:  {HP: 60, Armor: 4, XP: 6, Fragments: 1},
			},
			weights: map[ArchetypeID]float64{Dirt: 60, Stone: 30, Coal: 10},
		},
		{
			minDepth: 100,
			blocks: map[ArchetypeID]BlockStats{
				Dirt:  {HP: 45, Armor: 3, XP: 2, Fragments: 0},
				Stone: {HP: 90, Armor: 8, XP: 6, Fragments: 1},
				Coal:  {HP: 130, Armor: 12, XP: 12, Fragments: 2},
				Iron:  {HP: 180, Armor: 20, XP: 20, Fragments: 2},
			},
			weights: map[ArchetypeID]float64{Dirt: 45, Stone: 30, Coal: 17, Iron: 8},
		},
		{
			minDepth: 200,
			blocks: map[ArchetypeID]BlockStats{
				Dirt:  {HP: 100, Armor: 10, XP: 4, Fragments: 0},
				Stone: {HP: 200, Armor: 22, XP: 12, Fragments: 1},
				Coal:  {HP: 290, Armor: 30, XP: 24, Fragments: 2},
				Iron:  {HP: 400, Armor: 45, XP: 40, Fragments: 3},
				Gold:  {HP: 550, Armor: 60, XP: 70, Fragments: 3},
			},
			weights: map[ArchetypeID]float64{Dirt: 35, Stone: 28, Coal: 20, Iron: 12, Gold: 5},
		},
		{
			minDepth: 300,
			blocks: map[ArchetypeID]BlockStats{
				Dirt:    {HP: 220, Armor: 25, XP: 8, Fragments: 0},
				Stone:   {HP: 440, Armor: 50, XP: 24, Fragments: 1},
				Coal:    {HP: 640, Armor: 70, XP: 48, Fragments: 2},
				Iron:    {HP: 880, Armor: 100, XP: 80, Fragments: 3},
				Gold:    {HP: 1200, Armor: 130, XP: 140, Fragments: 4},
				Diamond: {HP: 1700, Armor: 180, XP: 260, Fragments: 5},
			},
			weights: map[ArchetypeID]float64{Dirt: 28, Stone: 26, Coal: 20, Iron: 14, Gold: 8, Diamond: 4},
		},
	}

	bands := make([]Band, 0, len(defs))
	for _, d := range defs {
		b, err := band(d.minDepth, d.blocks, d.weights)
		if err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	return New(bands)
}
