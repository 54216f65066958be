// Package report derives the monthly productivity report from the trash
// ledger.
package report

import (
	"eisenhower-matrix/internal/models"
	"math"
	"time"
)

type Report struct {
	Year                int                     `json:"year" yaml:"year"`
	Month               time.Month              `json:"month" yaml:"month"`
	TotalTasksCompleted int                     `json:"totalTasksCompleted" yaml:"totalTasksCompleted"`
	TasksByQuadrant     map[models.Quadrant]int `json:"tasksByQuadrant" yaml:"tasksByQuadrant"`
	AverageTasksPerDay  float64                 `json:"averageTasksPerDay" yaml:"averageTasksPerDay"`
	// MostProductiveDay is a day of the month, or 0 with no completions.
	MostProductiveDay int `json:"mostProductiveDay" yaml:"mostProductiveDay"`
	CurrentStreak     int `json:"currentStreak" yaml:"currentStreak"`
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

// Generate summarizes the entries completed in the calendar month of now,
// in now's location.
func Generate(entries []models.CompletedTask, now time.Time) Report {
	year, month, today := now.Date()
	r := Report{
		Year:            year,
		Month:           month,
		TasksByQuadrant: map[models.Quadrant]int{},
	}

	perDay := map[int]int{}
	var order []int
	active := map[day]bool{}

	for _, e := range entries {
		at := e.CompletedAt.In(now.Location())
		y, m, d := at.Date()
		if y != year || m != month {
			continue
		}

		r.TotalTasksCompleted++
		r.TasksByQuadrant[e.Quadrant]++
		if perDay[d] == 0 {
			order = append(order, d)
		}
		perDay[d]++
		active[dayOf(at)] = true
	}

	avg := float64(r.TotalTasksCompleted) / float64(max(today, 1))
	r.AverageTasksPerDay = math.Round(avg*10) / 10

	best := 0
	for _, d := range order {
		if perDay[d] > best {
			best = perDay[d]
			r.MostProductiveDay = d
		}
	}

	for cursor := now; active[dayOf(cursor)]; cursor = cursor.AddDate(0, 0, -1) {
		r.CurrentStreak++
	}

	return r
}

// Bundle is the motivational content shown on the last day of a month.
type Bundle struct {
	Quote            string `json:"quote" yaml:"quote"`
	Author           string `json:"author" yaml:"author"`
	VideoTitle       string `json:"videoTitle" yaml:"videoTitle"`
	VideoURL         string `json:"videoUrl" yaml:"videoUrl"`
	VideoDescription string `json:"videoDescription" yaml:"videoDescription"`
}

var Bundles = []Bundle{
	{
		Quote:            "Success is not final, failure is not fatal: it is the courage to continue that counts.",
		Author:           "Winston Churchill",
		VideoTitle:       "The Power of Habit",
		VideoURL:         "https://www.youtube.com/embed/AD5W3JvA7-0",
		VideoDescription: "Charles Duhigg explains how habits work and how you can change them to achieve your goals.",
	},
	{
		Quote:            "The only way to do great work is to love what you do. If you haven't found it yet, keep looking.",
		Author:           "Steve Jobs",
		VideoTitle:       "How Great Leaders Inspire Action",
		VideoURL:         "https://www.youtube.com/embed/qp0HIF3SfI4",
		VideoDescription: "Simon Sinek presents his famous Golden Circle theory on how great leaders inspire action.",
	},
	{
		Quote:            "Your time is limited, don't waste it living someone else's life.",
		Author:           "Steve Jobs",
		VideoTitle:       "Grit: The Power of Passion and Perseverance",
		VideoURL:         "https://www.youtube.com/embed/H14bBxwbbB4",
		VideoDescription: "Angela Lee Duckworth explains why grit is the key to success.",
	},
	{
		Quote:            "The future belongs to those who believe in the beauty of their dreams.",
		Author:           "Eleanor Roosevelt",
		VideoTitle:       "The Happy Secret to Better Work",
		VideoURL:         "https://www.youtube.com/embed/gXwCXmJ0pF4",
		VideoDescription: "Shawn Achor shares how happiness can actually improve your work and productivity.",
	},
	{
		Quote:            "It is during our darkest moments that we must focus to see the light.",
		Author:           "Aristotle",
		VideoTitle:       "The Puzzle of Motivation",
		VideoURL:         "https://www.youtube.com/embed/rrkrvAU4Uqs",
		VideoDescription: "Dan Pink reveals what truly motivates us in the modern workplace.",
	},
	{
		Quote:            "The best time to plant a tree was 20 years ago. The second best time is now.",
		Author:           "Chinese Proverb",
		VideoTitle:       "Inside the Mind of a Master Procrastinator",
		VideoURL:         "https://www.youtube.com/embed/arj7oStGLkU",
		VideoDescription: "Tim Urban humorously explores the mind of a procrastinator and how to overcome it.",
	},
}

func IsLastDayOfMonth(now time.Time) bool {
	return now.AddDate(0, 0, 1).Month() != now.Month()
}

// EndOfMonth picks a bundle with pick(len(Bundles)) when now is the last day
// of its month.
func EndOfMonth(now time.Time, pick func(n int) int) (Bundle, bool) {
	if !IsLastDayOfMonth(now) {
		return Bundle{}, false
	}
	return Bundles[pick(len(Bundles))], true
}
