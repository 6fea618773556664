package common

import "strings"

// AllowedIndustries lists the industry choices the lead form offers. The
// form also accepts free text through the 其他 option, so unknown values are
// passed through rather than rejected.
var AllowedIndustries = []string{"品牌商", "公關公司", "行銷活動", "經紀公司", "其他"}

// AllowedBudgets lists the monthly budget ranges of the lead form.
var AllowedBudgets = []string{"5千以下", "5千-1萬", "1萬-3萬", "3萬-5萬", "5萬以上", "尚在評估"}

// CanonicalIndustry normalises alias spellings into the canonical labels the
// sinks and the spreadsheet expect.
func CanonicalIndustry(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	switch strings.ToLower(trimmed) {
	case "brand", "brand_owner":
		return "品牌商"
	case "pr", "pr_agency":
		return "公關公司"
	case "marketing", "marketing_campaign":
		return "行銷活動"
	case "agency", "talent_agency":
		return "經紀公司"
	case "other", "others":
		return "其他"
	}

	return trimmed
}
