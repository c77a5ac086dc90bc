package wellbeing

// ContextPack is the fact sheet used to personalise a module. It is stored on
// the session as a snapshot and never persisted on its own.
type ContextPack struct {
	Org     OrgBlock     `json:"org"`
	Role    RoleBlock    `json:"role"`
	Session SessionBlock `json:"session"`
}

type OrgBlock struct {
	Purpose         *string  `json:"purpose"`
	Industry        *string  `json:"industry"`
	WorkEnvironment *string  `json:"work_environment"`
	BenefitsTags    []string `json:"benefits_tags"`
}

type RoleBlock struct {
	Family          *string  `json:"family"`
	SeniorityBand   *string  `json:"seniority_band"`
	WorkPattern     *string  `json:"work_pattern"`
	StressorProfile []string `json:"stressor_profile"`
}

type SessionBlock struct {
	Language      string  `json:"language"`
	StressBand    *string `json:"stress_band"`
	ThemeCategory *string `json:"theme_category"`
	AvailableTime *int    `json:"available_time"`
}
