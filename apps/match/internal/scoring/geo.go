package scoring

import (
	"math"

	"MatchServer/model"
)

// EarthRadiusKm 地球平均半径
const EarthRadiusKm = 6371.0

// DistanceKm haversine 公式计算两点球面距离（公里）
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ProfileDistanceKm 两个用户之间的距离，任一方未设置位置时 ok 为 false
func ProfileDistanceKm(a, b *model.UserProfile) (km float64, ok bool) {
	if !a.HasLocation() || !b.HasLocation() {
		return 0, false
	}
	return DistanceKm(*a.Lat, *a.Lon, *b.Lat, *b.Lon), true
}

// DistanceScore 距离越近分越高：max(0, 1 - d/maxDistance)；距离未知或未设置上限返回 0.5
func DistanceScore(distanceKm float64, known bool, maxDistanceKm int) float64 {
	if !known || maxDistanceKm <= 0 {
		return Neutral
	}
	return math.Max(0, 1-distanceKm/float64(maxDistanceKm))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
