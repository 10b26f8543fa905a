// Package stats fetches the admin dashboard metrics. A thin read-only
// wrapper over the access layer; the server enforces the role.
package stats

import (
	"context"
	"time"

	"github.com/amoura-app/amoura-console/internal/api"
)

// GrowthPoint is one day of the user growth series.
type GrowthPoint struct {
	Date     string `json:"date"`
	NewUsers int64  `json:"newUsers"`
}

// MatchPoint is one day of the matching success series.
type MatchPoint struct {
	Date         string `json:"date"`
	TotalSwipes  int64  `json:"totalSwipes"`
	TotalMatches int64  `json:"totalMatches"`
}

// Activity is a recent platform event shown on the dashboard.
type Activity struct {
	ActivityType string    `json:"activityType"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}

// Dashboard aggregates the platform counters the console renders.
type Dashboard struct {
	TotalUsers       int64         `json:"totalUsers"`
	TotalMatches     int64         `json:"totalMatches"`
	TotalMessages    int64         `json:"totalMessages"`
	TodayUsers       int64         `json:"todayUsers"`
	TodayMatches     int64         `json:"todayMatches"`
	TodayMessages    int64         `json:"todayMessages"`
	ActiveUsersToday int64         `json:"activeUsersToday"`
	UserGrowthChart  []GrowthPoint `json:"userGrowthChart"`
	MatchingChart    []MatchPoint  `json:"matchingSuccessChart"`
	RecentActivities []Activity    `json:"recentActivities"`
}

// Service fetches dashboard data.
type Service struct {
	client *api.Client
}

// NewService constructs the stats service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Dashboard fetches the current dashboard snapshot.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	if err := s.client.Get(ctx, "/admin/dashboard", nil, &d); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
