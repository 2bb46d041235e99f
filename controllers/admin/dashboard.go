package adminControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type monthlyStats struct {
	RevenueCents int64 `json:"revenue_cents"`
	Orders       int64 `json:"orders"`
	NewUsers     int64 `json:"new_users"`
}

// ChangePercent returns the percentage change from prev to cur. A zero
// previous value maps to 0 when cur is also zero, and to 100 otherwise.
func ChangePercent(prev, cur int64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return float64(cur-prev) / float64(prev) * 100
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func collectStats(db *gorm.DB, from, to time.Time) (monthlyStats, error) {
	var stats monthlyStats

	// Refunded orders no longer count towards revenue.
	err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("payment_status = ?", models.PaymentPaid).
		Where("status <> ?", models.OrderStatusRefunded).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&stats.RevenueCents).Error
	if err != nil {
		return stats, err
	}

	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stats.Orders).Error; err != nil {
		return stats, err
	}

	if err := db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stats.NewUsers).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

// GET /admin/dashboard
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		curStart := monthStart(now)
		prevStart := monthStart(curStart.AddDate(0, 0, -1))

		current, err := collectStats(db, curStart, now)
		if err != nil {
			zap.S().Errorw("dashboard stats query failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}
		previous, err := collectStats(db, prevStart, curStart)
		if err != nil {
			zap.S().Errorw("dashboard stats query failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"current":  current,
			"previous": previous,
			"change": gin.H{
				"revenue":   ChangePercent(previous.RevenueCents, current.RevenueCents),
				"orders":    ChangePercent(previous.Orders, current.Orders),
				"new_users": ChangePercent(previous.NewUsers, current.NewUsers),
			},
		})
	}
}
