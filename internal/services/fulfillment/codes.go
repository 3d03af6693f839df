package fulfillment

import "strings"

type platform string

type action string

const (
	platformInstagram platform = "instagram"
	platformTikTok    platform = "tiktok"
	platformFacebook  platform = "facebook"

	actionFollowers action = "followers"
	actionLikes     action = "likes"
	actionViews     action = "views"
)

type serviceKey struct {
	platform platform
	action   action
}

// Upstream panel service codes, one per (platform, action) pair.
var serviceCodes = map[serviceKey]string{
	{platformInstagram, actionFollowers}: "5712",
	{platformInstagram, actionLikes}:     "4365",
	{platformInstagram, actionViews}:     "556",
	{platformFacebook, actionFollowers}:  "1636",
	{platformFacebook, actionLikes}:      "1101",
	{platformFacebook, actionViews}:      "9598",
	{platformTikTok, actionFollowers}:    "8521",
	{platformTikTok, actionLikes}:        "2079",
	{platformTikTok, actionViews}:        "6990",
}

var platforms = []platform{platformInstagram, platformTikTok, platformFacebook}

var actions = []action{actionFollowers, actionLikes, actionViews}

// ServiceCode classifies a product slug by substring into a platform and an
// action and maps the pair to its upstream code. Slugs outside the nine known
// combinations resolve to ok == false.
func ServiceCode(slug string) (string, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", false
	}

	key := serviceKey{}
	for _, p := range platforms {
		if strings.Contains(slug, string(p)) {
			key.platform = p
			break
		}
	}
	for _, a := range actions {
		if strings.Contains(slug, string(a)) {
			key.action = a
			break
		}
	}

	code, ok := serviceCodes[key]
	return code, ok
}
