package components

import "strings"

// Terrain is a cell's habitat type.
type Terrain uint8

const (
	Ocean Terrain = iota
	Mountain
	Desert
	Jungle
	Savannah
)

// NumTerrains is the number of Terrain values.
const NumTerrains = 5

var terrainLetters = [NumTerrains]byte{'O', 'M', 'D', 'J', 'S'}

var terrainNames = [NumTerrains]string{"Ocean", "Mountain", "Desert", "Jungle", "Savannah"}

func (t Terrain) String() string {
	if int(t) < NumTerrains {
		return terrainNames[t]
	}
	return "Unknown"
}

// Letter returns the single-character map code.
func (t Terrain) Letter() byte {
	if int(t) < NumTerrains {
		return terrainLetters[t]
	}
	return '?'
}

// Habitable reports whether animals may live on the terrain.
func (t Terrain) Habitable() bool {
	return t != Ocean && t != Mountain
}

// TerrainFromLetter maps a map code to its terrain.
func TerrainFromLetter(c byte) (Terrain, bool) {
	for i, l := range terrainLetters {
		if l == c {
			return Terrain(i), true
		}
	}
	return 0, false
}

// ParseTerrain accepts either a map letter ("J") or a name ("Jungle").
func ParseTerrain(name string) (Terrain, bool) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		return TerrainFromLetter(strings.ToUpper(name)[0])
	}
	for i, n := range terrainNames {
		if strings.EqualFold(n, name) {
			return Terrain(i), true
		}
	}
	return 0, false
}
