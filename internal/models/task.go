package models

import "github.com/shopspring/decimal"

// Task is an earning opportunity users complete for a reward. The catalog
// is static for now; completing a task records an earning transaction.
type Task struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Reward        decimal.Decimal `json:"reward"`
	Difficulty    string          `json:"difficulty"`
	EstimatedTime string          `json:"estimated_time"`
	Category      string          `json:"category"`
	Tags          []string        `json:"tags"`
}

var TaskCatalog = []Task{
	{
		ID:            1,
		Title:         "Data Entry - Product Catalog",
		Description:   "Enter product information into our database system with accurate details",
		Reward:        decimal.NewFromInt(25),
		Difficulty:    "Beginner",
		EstimatedTime: "1-2 hours",
		Category:      "Data Entry",
		Tags:          []string{"Data Entry", "Accuracy", "Excel"},
	},
	{
		ID:            2,
		Title:         "Social Media Content Review",
		Description:   "Review and moderate social media posts for compliance and quality",
		Reward:        decimal.NewFromInt(15),
		Difficulty:    "Beginner",
		EstimatedTime: "1 hour",
		Category:      "Content Moderation",
		Tags:          []string{"Content Review", "Social Media", "Moderation"},
	},
	{
		ID:            3,
		Title:         "Survey Completion - Market Research",
		Description:   "Complete detailed market research surveys about consumer preferences",
		Reward:        decimal.NewFromInt(10),
		Difficulty:    "Beginner",
		EstimatedTime: "30 minutes",
		Category:      "Surveys",
		Tags:          []string{"Survey", "Market Research", "Consumer"},
	},
	{
		ID:            4,
		Title:         "Image Tagging and Classification",
		Description:   "Tag and classify product images for e-commerce catalog",
		Reward:        decimal.NewFromInt(20),
		Difficulty:    "Beginner",
		EstimatedTime: "1-2 hours",
		Category:      "Image Processing",
		Tags:          []string{"Image Tagging", "Classification", "E-commerce"},
	},
	{
		ID:            5,
		Title:         "Website Testing and Bug Reports",
		Description:   "Test websites and mobile apps, report bugs and usability issues",
		Reward:        decimal.NewFromInt(35),
		Difficulty:    "Intermediate",
		EstimatedTime: "2-3 hours",
		Category:      "Quality Assurance",
		Tags:          []string{"Testing", "QA", "Bug Reports"},
	},
}

func TaskByID(id int) (*Task, bool) {
	for i := range TaskCatalog {
		if TaskCatalog[i].ID == id {
			return &TaskCatalog[i], true
		}
	}
	return nil, false
}
