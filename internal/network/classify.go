package network

import (
	"strings"

	"github.com/sells-group/route-profitability/internal/model"
)

// ClassifyRoute returns the route class "{OriginTier}-{DestTier}". The
// origin tier always comes first.
func ClassifyRoute(origin, dest model.Airport) string {
	return string(origin.HubStatus) + "-" + string(dest.HubStatus)
}

// RouteClasses lists every route class in origin-major order.
func RouteClasses() []string {
	tiers := []model.HubTier{model.HubMajor, model.HubMedium, model.HubMinor}
	classes := make([]string, 0, len(tiers)*len(tiers))
	for _, o := range tiers {
		for _, d := range tiers {
			classes = append(classes, ClassifyRoute(model.Airport{HubStatus: o}, model.Airport{HubStatus: d}))
		}
	}
	return classes
}

// HasTier reports whether either end of the route class is tier t.
func HasTier(routeClass string, t model.HubTier) bool {
	origin, dest, ok := strings.Cut(routeClass, "-")
	if !ok {
		return routeClass == string(t)
	}
	return origin == string(t) || dest == string(t)
}
