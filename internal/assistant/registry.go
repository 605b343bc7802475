package assistant

import "strconv"

// Category selects one kind of assistant. Only the health coach is live;
// the remaining categories are reserved for specialized analysts.
type Category int

const (
	CategoryHealthCoach Category = iota + 1
	CategoryBloodPanelAnalyst
	CategoryDexaAnalyst
)

// DefaultCategory is used when a request carries no explicit category.
const DefaultCategory = CategoryHealthCoach

// FallbackLocale is used when a user record is missing or their locale has
// no profile.
const FallbackLocale = "en"

// Profile holds the per-locale presentation of one assistant category.
type Profile struct {
	Name         string
	Greeting     string
	Instructions string
}

// Registry is the static mapping of (category, locale) to assistant profile
// plus the remote assistant id per category. Read-only after construction.
type Registry struct {
	ids      map[Category]string
	profiles map[Category]map[string]Profile
}

// NewRegistry builds the registry with the built-in profiles and the remote
// assistant ids from configuration, keyed by numeric category. Entries with
// an empty id or a non-numeric key are ignored.
func NewRegistry(assistantIDs map[string]string) *Registry {
	ids := make(map[Category]string, len(assistantIDs))
	for key, id := range assistantIDs {
		category, err := strconv.Atoi(key)
		if err != nil || id == "" {
			continue
		}
		ids[Category(category)] = id
	}
	return &Registry{
		ids:      ids,
		profiles: defaultProfiles(),
	}
}

// AssistantID returns the remote assistant id for a category.
func (r *Registry) AssistantID(category Category) (string, bool) {
	id, ok := r.ids[category]
	return id, ok
}

// Profile resolves the profile for (category, locale), falling back to
// FallbackLocale when the locale has no entry.
func (r *Registry) Profile(category Category, locale string) (Profile, bool) {
	locales, ok := r.profiles[category]
	if !ok {
		return Profile{}, false
	}
	if profile, ok := locales[locale]; ok {
		return profile, true
	}
	profile, ok := locales[FallbackLocale]
	return profile, ok
}

func defaultProfiles() map[Category]map[string]Profile {
	const healthCoachInstructions = "You are a Health AI Coach, offering advice on health, fitness, diet, longevity, and wellbeing, grounded in a specific knowledge base derived from podcast transcripts."

	return map[Category]map[string]Profile{
		CategoryHealthCoach: {
			"en": {
				Name:         "Health Bot",
				Greeting:     "Hi, I am your personal AI Health Bot, here to assist you with a wide range of topics. Feel free to inquire about health, fitness, diet, longevity, wellbeing, and any related areas such as mental health, sleep quality, stress management, and preventive healthcare.",
				Instructions: healthCoachInstructions,
			},
			"dk": {
				Name:         "Health Bot",
				Greeting:     "Hej, jeg er din personlige AI-sundhedsrobot, her for at hjælpe dig med et bredt udvalg af emner. Du er velkommen til at spørge om sundhed, fitness, kost, longevity, velbefindende og alle relaterede områder såsom mental sundhed, søvnkvalitet, stresshåndtering og forebyggende sundhedspleje.",
				Instructions: healthCoachInstructions,
			},
		},
	}
}
