package service

const maxRecommendationPageSize = 50

// Section identifies one recommendation shelf shown to clients.
type Section struct {
	ID    string
	Title string
}

var recommendationSections = map[string]Section{
	"suggested_for_you": {ID: "sec_suggested", Title: "Suggested for you"},
	"popular_creators":  {ID: "sec_popular", Title: "Popular creators"},
	"new_to_platform":   {ID: "sec_new", Title: "New to the platform"},
}

func sectionFor(tag string) (Section, bool) {
	section, ok := recommendationSections[tag]
	return section, ok
}
