package reminder

import (
	"fmt"
	"strconv"
	"strings"
)

// CommuteFallbackText is used whenever no route can be rendered.
const CommuteFallbackText = "请预留 25 分钟出行"

// Place is one end of a commute.
type Place struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// Route is one travel option between two places.
type Route struct {
	Mode            string  `json:"mode"`
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceKM      float64 `json:"distance_km"`
	TrafficStatus   string  `json:"traffic_status"`
}

// CommutePlan is the backend's commute answer.
type CommutePlan struct {
	From   Place   `json:"from"`
	To     Place   `json:"to"`
	Routes []Route `json:"routes"`
}

// FormatCommute renders the first route as
// "{from} → {to}，约 {dist}km / {dur}分钟 / 路况{traffic}". Zero or empty parts are left out.
func FormatCommute(plan *CommutePlan) string {
	if plan == nil || len(plan.Routes) == 0 {
		return CommuteFallbackText
	}
	r := plan.Routes[0]

	var parts []string
	if r.DistanceKM != 0 {
		parts = append(parts, fmt.Sprintf("%.1fkm", r.DistanceKM))
	}
	if r.DurationMinutes != 0 {
		parts = append(parts, strconv.FormatFloat(r.DurationMinutes, 'f', -1, 64)+"分钟")
	}
	if r.TrafficStatus != "" {
		parts = append(parts, "路况"+r.TrafficStatus)
	}
	detail := "路况信息暂无"
	if len(parts) > 0 {
		detail = strings.Join(parts, " / ")
	}

	return fmt.Sprintf("%s → %s，约 %s", placeName(plan.From, "出发地"), placeName(plan.To, "目的地"), detail)
}

func placeName(p Place, fallback string) string {
	if p.Address != "" {
		return p.Address
	}
	if p.Type != "" {
		return p.Type
	}
	return fallback
}
