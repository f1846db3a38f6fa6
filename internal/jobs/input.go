// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package jobs

import "strings"

// CreateInput is the job intake form.
type CreateInput struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Company  string `json:"company" validate:"required,notblank,max=200"`
	Location string `json:"location" validate:"required,notblank,max=200"`
	URL      string `json:"url" validate:"required,notblank,max=2048,absurl"`
}

// UpdateInput is the job edit form. Every field is replaced.
type UpdateInput struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Company  string `json:"company" validate:"required,notblank,max=200"`
	Location string `json:"location" validate:"required,notblank,max=200"`
	URL      string `json:"url" validate:"required,notblank,max=2048,absurl"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

func (in *CreateInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.URL = strings.TrimSpace(in.URL)
}

func (in *UpdateInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.URL = strings.TrimSpace(in.URL)
}

// Created is the projection returned after a create.
type Created struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Updated is the projection returned after an update.
type Updated struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Deactivated   bool   `json:"deactivated"`
	PointsAwarded int    `json:"points_awarded"`
}

// URLInspection is the result of checking a submitted URL.
type URLInspection struct {
	Clean             string `json:"clean"`
	Stripped          string `json:"stripped"`
	HasResidualParams bool   `json:"has_residual_params"`
}
