package model

// Package model defines the data structures shared by the handler, the
// progress adapter and the front-ends: media kinds and quality presets,
// extracted media metadata, progress snapshots and download tasks.
