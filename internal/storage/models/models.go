package models

import "time"

type TrendQueryRecord struct {
	ID          string
	Names       []string
	Metric      string
	StartYear   int
	EndYear     int
	SeriesCount int
	LatencyMS   int
	CreatedAt   time.Time
}

type PredictionRecord struct {
	ID                              string
	Name                            string
	Year                            int
	IsFamous                        int
	GenderBinary                    int
	RollingAverageGenderRatio5Years float64
	VowelCount                      int
	EndsWithSpecifiedLetters        int
	Label                           int
	Probability                     float64
	LatencyMS                       int
	CreatedAt                       time.Time
}
