package interaction

import (
	"sort"
	"time"
)

// AnalyticsSummary is the dashboard rollup over a recency window.
type AnalyticsSummary struct {
	TotalConversations     int            `json:"total_conversations"`
	TotalDurationMinutes   int            `json:"total_duration_minutes"`
	AverageDurationSeconds int            `json:"average_duration_seconds"`
	SentimentBreakdown     map[string]int `json:"sentiment_breakdown"`
	OutcomeBreakdown       map[string]int `json:"outcome_breakdown"`
	TopTopics              []TopicCount   `json:"top_topics"`
}

// TopicCount pairs a conversation topic with its occurrence count.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

const maxTopTopics = 5

// Analyze computes the rollup over interactions started at or after since.
func Analyze(records []Interaction, since time.Time) AnalyticsSummary {
	sum := AnalyticsSummary{
		SentimentBreakdown: make(map[string]int),
		OutcomeBreakdown:   make(map[string]int),
		TopTopics:          []TopicCount{},
	}

	topics := make(map[string]int)
	totalSeconds := 0
	for _, r := range records {
		if r.StartedAt.Before(since) {
			continue
		}
		sum.TotalConversations++
		totalSeconds += r.DurationSeconds
		sum.SentimentBreakdown[r.Sentiment]++
		sum.OutcomeBreakdown[NormalizeOutcome(r.Outcome)]++
		topics[r.Topic]++
	}

	if sum.TotalConversations == 0 {
		return sum
	}

	sum.TotalDurationMinutes = totalSeconds / 60
	sum.AverageDurationSeconds = totalSeconds / sum.TotalConversations

	for topic, count := range topics {
		sum.TopTopics = append(sum.TopTopics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(sum.TopTopics, func(i, j int) bool {
		if sum.TopTopics[i].Count != sum.TopTopics[j].Count {
			return sum.TopTopics[i].Count > sum.TopTopics[j].Count
		}
		return sum.TopTopics[i].Topic < sum.TopTopics[j].Topic
	})
	if len(sum.TopTopics) > maxTopTopics {
		sum.TopTopics = sum.TopTopics[:maxTopTopics]
	}

	return sum
}
