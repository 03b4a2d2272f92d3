package profile

// Profile parameterizes the system instruction sent to the model for
// one advisory audience.
type Profile struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ReferenceYears lists the supported fiscal reference years, newest first.
var ReferenceYears = []string{"2026", "2025", "2024"}

// DefaultYear is applied to new sessions.
const DefaultYear = "2026"

// ValidYear reports whether year is a supported fiscal referential.
func ValidYear(year string) bool {
	for _, y := range ReferenceYears {
		if y == year {
			return true
		}
	}
	return false
}

// Seed provides the default expert profiles shipped with the cabinet.
func Seed() []Profile {
	return []Profile{
		{
			ID:          "general",
			Label:       "Mode Général (Recherche)",
			Description: "Tu es une encyclopédie fiscale. Donne des définitions et des grands principes.",
		},
		{
			ID:          "jeune-actif",
			Label:       "Jeune Actif / Cadre",
			Description: "Phase d'accumulation. Priorités : Épargne (PEA, AV), Résidence Principale, Défiscalisation (PER).",
		},
		{
			ID:          "famille",
			Label:       "Famille & Patrimoine",
			Description: "Priorités : Protection du conjoint, Transmission, Optimisation successorale.",
		},
		{
			ID:          "chef-entreprise",
			Label:       "Chef d'Entreprise (TNS)",
			Description: "Priorités : Rémunération vs Dividendes, Holding, Pacte Dutreil, Cession, Retraite Madelin.",
		},
		{
			ID:          "retraite",
			Label:       "Retraité",
			Description: "Priorités : Compléments de revenus, Protection inflation, Succession, LMNP.",
		},
		{
			ID:          "investisseur-immo",
			Label:       "Investisseur Immo",
			Description: "Priorités : SCI (IS/IR), LMNP Réel, Déficit Foncier, Cash-flow.",
		},
		{
			ID:          "non-resident",
			Label:       "Non-Résident",
			Description: "Priorités : Convention fiscale, Retenue à la source, IFI.",
		},
	}
}
