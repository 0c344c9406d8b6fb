package ops

import (
	"database/sql"

	"github.com/pohangstory/storyteller/internal/album"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// ClassifyInput contains parameters for the Classify operation.
type ClassifyInput struct {
	Trip     string // default: "default"
	Strategy string // required: date, location, theme, timeofday, activity, emotion, smart
}

// ClassifyOutput contains the result of the Classify operation.
type ClassifyOutput struct {
	Strategy string        `json:"strategy"`
	Trip     string        `json:"trip"`
	Albums   []album.Album `json:"albums"`
}

// Classify loads a trip's active items and partitions them into albums
// using the requested strategy.
func Classify(database *sql.DB, classifier *album.Classifier, input ClassifyInput) (*ClassifyOutput, error) {
	if !album.ValidStrategy(input.Strategy) {
		return nil, errors.NewInvalidRequest("strategy must be one of: date, location, theme, timeofday, activity, emotion, smart")
	}

	tripRaw, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	items, err := db.ListActiveItems(database, tripNorm)
	if err != nil {
		return nil, err
	}

	if classifier == nil {
		classifier = &album.Classifier{}
	}
	albums := classifier.ByStrategy(input.Strategy, content.ToAlbumItems(items))

	return &ClassifyOutput{
		Strategy: input.Strategy,
		Trip:     tripRaw,
		Albums:   albums,
	}, nil
}
