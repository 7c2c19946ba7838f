package models

// Direction is the trend arrow shown next to a metric.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// The card types below are the presentation shapes shared by real content
// and the authored placeholder sets.

type HeroStats struct {
	ForestLoss string `json:"forestLoss" yaml:"forest_loss"`
	Alerts     string `json:"alerts" yaml:"alerts"`
	Posts      int    `json:"posts" yaml:"posts"`
}

type Hero struct {
	Title           string    `json:"title" yaml:"title"`
	Subtitle        string    `json:"subtitle" yaml:"subtitle"`
	CtaURL          string    `json:"ctaUrl" yaml:"cta_url"`
	CtaText         string    `json:"ctaText" yaml:"cta_text"`
	BackgroundImage string    `json:"backgroundImage" yaml:"background_image"`
	Stats           HeroStats `json:"stats" yaml:"stats"`
}

type StoryCard struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Href     string `json:"href" yaml:"href"`
	ImageURL string `json:"imageUrl" yaml:"image_url"`
	Category string `json:"category" yaml:"category"`
	Author   string `json:"author,omitempty" yaml:"author"`
	Date     string `json:"date,omitempty" yaml:"date"`
}

type AnalysisCard struct {
	ID      string `json:"id" yaml:"id"`
	Range   string `json:"range" yaml:"range"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	Href    string `json:"href" yaml:"href"`
}

type VideoCard struct {
	Title     string `json:"title" yaml:"title"`
	Excerpt   string `json:"excerpt" yaml:"excerpt"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail"`
	URL       string `json:"url" yaml:"url"`
}

type SnapshotMetric struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Value       string    `json:"value" yaml:"value"`
	Trend       string    `json:"trend" yaml:"trend"`
	Direction   Direction `json:"direction" yaml:"direction"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
}

type TimelineHighlight struct {
	Label     string    `json:"label" yaml:"label"`
	Change    string    `json:"change" yaml:"change"`
	Direction Direction `json:"direction" yaml:"direction"`
}

type Partner struct {
	Name string `json:"name" yaml:"name"`
	Logo string `json:"logo" yaml:"logo"`
	URL  string `json:"url" yaml:"url"`
}
