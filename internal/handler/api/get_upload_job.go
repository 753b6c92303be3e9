package api

import (
	"fmt"
	"net/http"

	guuid "github.com/google/uuid"
	"github.com/rapidphoto/uploader-go/internal/api_context"
	"github.com/rapidphoto/uploader-go/internal/logger"
	"github.com/rapidphoto/uploader-go/internal/model"
	"github.com/rapidphoto/uploader-go/internal/port"
	"github.com/rapidphoto/uploader-go/internal/uuid"
)

func GetUploadJobHandler(svc port.UploadJobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.UploadJobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "upload job ID is required", nil)
			return
		}

		job, err := svc.GetUploadJob(r.Context(), jobID)
		if err != nil {
			WriteError(w, statusForError(err), fmt.Sprintf("could not get upload job #%s", jobID), err)
			return
		}

		RespondJSON(w, http.StatusOK, job)
		logger.Infof(r.Context(), "✅  Successfully returned upload job #%s", jobID)
	}
}

type ListUploadJobsResponse struct {
	UploadJobs []model.UploadJob `json:"upload_jobs"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// ListUploadJobsHandler lists the authenticated user's upload jobs. Without
// auth the user is taken from the user_id query parameter.
func ListUploadJobsHandler(svc port.UploadJobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			raw := r.URL.Query().Get("user_id")
			if raw == "" {
				WriteError(w, http.StatusBadRequest, "user_id is required", nil)
				return
			}
			parsed, err := guuid.Parse(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("user_id %q is not a valid UUID", raw), nil)
				return
			}
			userID = uuid.UUID(parsed)
		}

		limit := intQueryParam(r, "limit", 20)
		offset := intQueryParam(r, "offset", 0)

		jobs, err := svc.ListUploadJobs(r.Context(), userID, limit, offset)
		if err != nil {
			WriteError(w, statusForError(err), "could not list upload jobs", err)
			return
		}

		RespondJSON(w, http.StatusOK, ListUploadJobsResponse{UploadJobs: jobs, Limit: limit, Offset: offset})
		logger.Infof(r.Context(), "✅  Returned %d upload jobs for user #%s", len(jobs), userID)
	}
}
