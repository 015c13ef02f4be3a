// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/handlers"
	"github.com/danielhkuo/rnd-tracker/middleware"
)

func NewRouter(store *db.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(store, cfg)
	worklogHandler := handlers.NewWorklogHandler(store, cfg)
	scheduleHandler := handlers.NewScheduleHandler(store, cfg)
	commentHandler := handlers.NewCommentHandler(store, cfg)
	meetingHandler := handlers.NewMeetingHandler(store, cfg)
	reportHandler := handlers.NewReportHandler(store, cfg)
	masterHandler := handlers.NewMasterHandler(store, cfg)
	userHandler := handlers.NewUserHandler(store, cfg)
	dashboardHandler := handlers.NewDashboardHandler(store, cfg)

	gate := middleware.NewGate(userHandler, cfg.UserKeySalt)
	read := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(gate.Require(auth.PermRead, h))
	}
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(gate.Require(auth.PermWrite, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(gate.Require(auth.PermAdmin, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Projects
	mux.HandleFunc("GET /projects", read(projectHandler.ListProjects))
	mux.HandleFunc("POST /projects", write(projectHandler.CreateProject))
	mux.HandleFunc("GET /projects/{id}", read(projectHandler.GetProject))
	mux.HandleFunc("PUT /projects/{id}", write(projectHandler.UpdateProject))
	mux.HandleFunc("DELETE /projects/{id}", admin(projectHandler.DeleteProject))
	mux.HandleFunc("POST /projects/{id}/stage", write(projectHandler.ChangeStage))
	mux.HandleFunc("GET /projects/{id}/gantt", read(projectHandler.GetGantt))

	// Schedules
	mux.HandleFunc("GET /projects/{id}/schedules", read(scheduleHandler.ListSchedules))
	mux.HandleFunc("POST /projects/{id}/schedules", write(scheduleHandler.CreateSchedule))
	mux.HandleFunc("PUT /schedules/{id}", write(scheduleHandler.UpdateSchedule))
	mux.HandleFunc("DELETE /schedules/{id}", write(scheduleHandler.DeleteSchedule))

	// Comments (top-level threads additionally need the comment permission)
	mux.HandleFunc("GET /projects/{id}/comments", read(commentHandler.ListComments))
	mux.HandleFunc("POST /projects/{id}/comments", write(commentHandler.CreateComment))
	mux.HandleFunc("PUT /comments/{id}", write(commentHandler.UpdateComment))
	mux.HandleFunc("DELETE /comments/{id}", write(commentHandler.DeleteComment))

	// Worklogs
	mux.HandleFunc("GET /worklogs", read(worklogHandler.ListWorklogs))
	mux.HandleFunc("POST /worklogs", write(worklogHandler.CreateWorklog))
	mux.HandleFunc("GET /worklogs/{id}", read(worklogHandler.GetWorklog))
	mux.HandleFunc("PUT /worklogs/{id}", write(worklogHandler.UpdateWorklog))
	mux.HandleFunc("DELETE /worklogs/{id}", write(worklogHandler.DeleteWorklog))

	// Meeting minutes
	mux.HandleFunc("GET /meetings", read(meetingHandler.ListMeetings))
	mux.HandleFunc("POST /meetings", write(meetingHandler.CreateMeeting))
	mux.HandleFunc("GET /meetings/{id}", read(meetingHandler.GetMeeting))
	mux.HandleFunc("PUT /meetings/{id}", write(meetingHandler.UpdateMeeting))
	mux.HandleFunc("DELETE /meetings/{id}", write(meetingHandler.DeleteMeeting))

	// Weekly reports
	mux.HandleFunc("GET /reports", read(reportHandler.ListReports))
	mux.HandleFunc("POST /reports", write(reportHandler.CreateReport))
	mux.HandleFunc("GET /reports/draft", read(reportHandler.DraftReport))
	mux.HandleFunc("GET /reports/{id}", read(reportHandler.GetReport))
	mux.HandleFunc("PUT /reports/{id}", write(reportHandler.UpdateReport))
	mux.HandleFunc("DELETE /reports/{id}", write(reportHandler.DeleteReport))

	// Master data
	mux.HandleFunc("GET /master/{category}", read(masterHandler.ListMaster))
	mux.HandleFunc("POST /master/{category}", admin(masterHandler.AddMaster))
	mux.HandleFunc("DELETE /master/{category}/{value}", admin(masterHandler.DeleteMaster))

	// Users
	mux.HandleFunc("GET /me", read(userHandler.Me))
	mux.HandleFunc("GET /users", admin(userHandler.ListUsers))
	mux.HandleFunc("POST /users", admin(userHandler.CreateUser))
	mux.HandleFunc("PUT /users/{id}", admin(userHandler.UpdateUser))
	mux.HandleFunc("DELETE /users/{id}", admin(userHandler.DeleteUser))
	mux.HandleFunc("POST /users/{id}/key", admin(userHandler.IssueKey))

	// Dashboard
	mux.HandleFunc("GET /dashboard/summary", read(dashboardHandler.Summary))
	mux.HandleFunc("GET /dashboard/drilldown", read(dashboardHandler.Drilldown))
	mux.HandleFunc("GET /dashboard/activity", read(dashboardHandler.Activity))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rnd-tracker API v1"))
	})

	return mux
}
