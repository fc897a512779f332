package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/babyname-machine/backend/internal/dataset"
	"github.com/babyname-machine/backend/internal/prediction"
)

var pages = []string{"Home", "Baby Name Trends", "Baby Name Prediction"}

type section struct {
	Heading string   `json:"heading"`
	Body    string   `json:"body,omitempty"`
	Items   []string `json:"items,omitempty"`
}

var homeSections = []section{
	{
		Heading: "Introduction",
		Body: "A baby’s name is a significant gift from parents, embodying their hopes, love, and aspirations for their child. " +
			"This project aims to predict popular baby names using historical data and machine learning.",
	},
	{
		Heading: "Key Insights",
		Items: []string{
			"Cultural Reflection: Names reflect cultural, social, and generational identities.",
			"Identity and Aspiration: Parents often choose names that align with their aspirations for their children.",
			"Market Insights: Companies can benefit from understanding naming trends.",
		},
	},
	{
		Heading: "Methodology",
		Body:    "This project leverages historical data to analyze naming trends and make predictions using machine learning techniques such as Logistic Regression.",
	},
	{
		Heading: "Demo Platform",
		Body:    "The app provides two main functionalities:",
		Items: []string{
			"Baby Name Trends: Analyze historical trends of baby names.",
			"Baby Name Prediction: Predict the popularity of a given name.",
		},
	},
	{
		Heading: "Next Steps",
		Items: []string{
			"Add more features like name meanings.",
			"Implement time series analysis.",
			"Use deep learning for name generation.",
		},
	},
	{
		Heading: "Conclusion",
		Body:    "This project showcases how we can use machine learning to predict baby names that balance popularity and uniqueness, helping parents navigate naming decisions.",
	},
}

type HomeHandler struct {
	table   *dataset.Table
	service *prediction.Service
}

func NewHomeHandler(table *dataset.Table, service *prediction.Service) *HomeHandler {
	return &HomeHandler{table: table, service: service}
}

func (h *HomeHandler) GetPages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"pages": pages})
}

func (h *HomeHandler) GetHome(c *fiber.Ctx) error {
	minYear, maxYear := h.table.YearRange()
	return c.JSON(fiber.Map{
		"title":    "Baby Names Machine",
		"sections": homeSections,
		"dataset": fiber.Map{
			"rows":     h.table.Len(),
			"names":    h.table.NameCount(),
			"min_year": minYear,
			"max_year": maxYear,
		},
	})
}

func (h *HomeHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ready",
		"dataset_rows":     h.table.Len(),
		"artifacts_loaded": h.service.ArtifactsLoaded(),
	})
}
