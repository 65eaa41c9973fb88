package dto

// StatsResponse horas de hoy, semana y mes (un decimal) y ganancias del mes (sin decimales).
type StatsResponse struct {
	TodayHours    string `json:"todayHours"`
	WeekHours     string `json:"weekHours"`
	MonthHours    string `json:"monthHours"`
	TotalEarnings string `json:"totalEarnings"`
}
