package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// GetSpendingSummary aggregates purchased grocery items into category and
// weekly totals. Prices are stored as text; rows that do not parse as a
// number count as zero spend but still count as purchases.
func (db *DB) GetSpendingSummary(ctx context.Context) (*models.SpendingSummary, error) {
	summary := &models.SpendingSummary{
		Categories: []models.CategorySpend{},
		Weeks:      []models.WeeklySpend{},
	}

	catRows, err := db.Pool.Query(ctx, `
		SELECT gi.category,
		       COALESCE(SUM(CASE WHEN gi.price ~ '^[0-9]+(\.[0-9]+)?$' THEN gi.price::numeric ELSE 0 END), 0),
		       COUNT(*)
		FROM grocery_items gi
		WHERE gi.purchased = true
		GROUP BY gi.category
		ORDER BY 2 DESC, gi.category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category spend: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var c models.CategorySpend
		if err := catRows.Scan(&c.Category, &c.Total, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		summary.Categories = append(summary.Categories, c)
		summary.GrandTotal += c.Total
		summary.PurchaseCount += c.ItemCount
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	// Weekly rollup follows the item's list back to its plan; items on
	// lists that are not tied to a plan are excluded here.
	weekRows, err := db.Pool.Query(ctx, `
		SELECT wmp.week_start_date,
		       COALESCE(SUM(CASE WHEN gi.price ~ '^[0-9]+(\.[0-9]+)?$' THEN gi.price::numeric ELSE 0 END), 0),
		       COUNT(*)
		FROM grocery_items gi
		JOIN grocery_lists gl ON gl.id = gi.list_id
		JOIN weekly_meal_plans wmp ON wmp.id = gl.meal_plan_id
		WHERE gi.purchased = true
		GROUP BY wmp.week_start_date
		ORDER BY wmp.week_start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly spend: %w", err)
	}
	defer weekRows.Close()

	for weekRows.Next() {
		var w models.WeeklySpend
		var weekStart time.Time
		if err := weekRows.Scan(&weekStart, &w.Total, &w.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan weekly spend: %w", err)
		}
		w.WeekStart = weekStart.Format(dateFormat)
		summary.Weeks = append(summary.Weeks, w)
	}
	if err := weekRows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}

// RecordAIUsage folds one generation's token usage into today's rollup row
func (db *DB) RecordAIUsage(ctx context.Context, usage models.AIUsage) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO ai_usage_stats (day, calls, prompt_tokens, completion_tokens, total_tokens, updated_at)
		VALUES (CURRENT_DATE, $1, $2, $3, $4, NOW())
		ON CONFLICT (day) DO UPDATE SET
			calls = ai_usage_stats.calls + EXCLUDED.calls,
			prompt_tokens = ai_usage_stats.prompt_tokens + EXCLUDED.prompt_tokens,
			completion_tokens = ai_usage_stats.completion_tokens + EXCLUDED.completion_tokens,
			total_tokens = ai_usage_stats.total_tokens + EXCLUDED.total_tokens,
			updated_at = NOW()
	`, usage.Calls, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	if err != nil {
		return fmt.Errorf("failed to record AI usage: %w", err)
	}
	return nil
}

// ListAIUsage returns the most recent daily AI usage rollups, newest first
func (db *DB) ListAIUsage(ctx context.Context, days int) ([]models.AIUsageStats, error) {
	if days <= 0 {
		days = 30
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, day, calls, prompt_tokens, completion_tokens, total_tokens, updated_at
		FROM ai_usage_stats
		ORDER BY day DESC
		LIMIT $1
	`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query AI usage: %w", err)
	}
	defer rows.Close()

	stats := []models.AIUsageStats{}
	for rows.Next() {
		var s models.AIUsageStats
		var day time.Time
		if err := rows.Scan(&s.ID, &day, &s.Calls, &s.PromptTokens, &s.CompletionTokens, &s.TotalTokens, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan AI usage: %w", err)
		}
		s.Day = day.Format(dateFormat)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
