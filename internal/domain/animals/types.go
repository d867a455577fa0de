package animals

// Species define las especies que maneja la asociación.
type Species string

const (
	SpeciesBird    Species = "bird"
	SpeciesCat     Species = "cat"
	SpeciesDog     Species = "dog"
	SpeciesReptile Species = "reptile"
	SpeciesRodent  Species = "rodent"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesBird, SpeciesCat, SpeciesDog, SpeciesReptile, SpeciesRodent:
		return true
	default:
		return false
	}
}

// Breed según especie. No hay tabla de razas: el invariante
// "la raza corresponde a la especie" es un check de pertenencia.
type Breed string

const (
	BreedLabrador        Breed = "labrador"
	BreedGoldenRetriever Breed = "golden_retriever"
	BreedGermanShepherd  Breed = "german_shepherd"
	BreedBeagle          Breed = "beagle"
	BreedMixedDog        Breed = "mixed_dog"

	BreedEuropean  Breed = "european"
	BreedSiamese   Breed = "siamese"
	BreedPersian   Breed = "persian"
	BreedMaineCoon Breed = "maine_coon"

	BreedCanary   Breed = "canary"
	BreedParakeet Breed = "parakeet"

	BreedGuineaPig Breed = "guinea_pig"
	BreedHamster   Breed = "hamster"
	BreedRat       Breed = "rat"

	BreedPogona Breed = "pogona"
	BreedTurtle Breed = "turtle"
)

var breedsBySpecies = map[Species][]Breed{
	SpeciesDog:     {BreedLabrador, BreedGoldenRetriever, BreedGermanShepherd, BreedBeagle, BreedMixedDog},
	SpeciesCat:     {BreedEuropean, BreedSiamese, BreedPersian, BreedMaineCoon},
	SpeciesBird:    {BreedCanary, BreedParakeet},
	SpeciesRodent:  {BreedGuineaPig, BreedHamster, BreedRat},
	SpeciesReptile: {BreedPogona, BreedTurtle},
}

// BreedForSpecies indica si la raza pertenece a la especie.
func BreedForSpecies(b Breed, s Species) bool {
	for _, candidate := range breedsBySpecies[s] {
		if candidate == b {
			return true
		}
	}
	return false
}

// Color del pelaje/plumaje. Sin invariantes cruzados.
type Color string

const (
	ColorBlack    Color = "black"
	ColorWhite    Color = "white"
	ColorBrown    Color = "brown"
	ColorGray     Color = "gray"
	ColorGinger   Color = "ginger"
	ColorTricolor Color = "tricolor"
	ColorOther    Color = "other"
)

// Status es el estado de gestión del animal.
type Status string

const (
	StatusOpenToAdoption Status = "open_to_adoption"
	StatusReserved       Status = "reserved"
	StatusAdopted        Status = "adopted"
	StatusUnavailable    Status = "unavailable"
	StatusDeceased       Status = "deceased"
	StatusLost           Status = "lost"
	StatusReturned       Status = "returned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpenToAdoption, StatusReserved, StatusAdopted,
		StatusUnavailable, StatusDeceased, StatusLost, StatusReturned:
		return true
	default:
		return false
	}
}
