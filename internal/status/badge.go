package status

// BadgeInfo is the display metadata of a status
type BadgeInfo struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
}

var badges = map[Status]BadgeInfo{
	Submitted: {
		Status: Submitted,
		Label:  "Enviada",
		Color:  "bg-blue-100 text-blue-800",
		Icon:   "send",
	},
	UnderReview: {
		Status: UnderReview,
		Label:  "Em análise",
		Color:  "bg-yellow-100 text-yellow-800",
		Icon:   "clock",
	},
	Interview: {
		Status: Interview,
		Label:  "Entrevista",
		Color:  "bg-purple-100 text-purple-800",
		Icon:   "calendar",
	},
	Approved: {
		Status: Approved,
		Label:  "Aprovado",
		Color:  "bg-green-100 text-green-800",
		Icon:   "check-circle",
	},
	Rejected: {
		Status: Rejected,
		Label:  "Recusada",
		Color:  "bg-red-100 text-red-800",
		Icon:   "x-circle",
	},
}

// Badge resolves the badge of s. Unknown or empty values get the
// Submitted badge instead of an error.
func Badge(s Status) BadgeInfo {
	parsed, ok := Parse(string(s))
	if !ok {
		parsed = Submitted
	}
	return badges[parsed]
}

// Vocabulary returns every badge in display order.
func Vocabulary() []BadgeInfo {
	out := make([]BadgeInfo, 0, len(All))
	for _, s := range All {
		out = append(out, badges[s])
	}
	return out
}
