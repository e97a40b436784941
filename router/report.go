package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/helpers"
	"github.com/Gravitalia/gallery/model"
)

// now dates created reports
var now = func() time.Time {
	return time.Now().UTC()
}

// Report creates a report on a post, a user or a comment
func Report(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, ErrorMethodNotAllowed)
		return
	}

	vanity, err := getVanity(req)
	if err != nil || vanity == "" {
		sendError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return
	}

	defer req.Body.Close()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		sendError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return
	}

	var getbody model.ReportBody
	if err = json.Unmarshal(body, &getbody); err != nil {
		sendError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	if err = getbody.Validate(); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	acquired, err := store.AcquireReport(vanity, getbody.TargetId)
	if errors.Is(err, database.ErrMalformedKey) {
		sendError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	} else if err != nil {
		// reports are still accepted when memcached is down
		helpers.Logger.Warn().Err(err).Msg("cannot check report cooldown")
	} else if !acquired {
		sendError(w, http.StatusTooManyRequests, ErrorAlreadyReported)
		return
	}

	report := model.Report{
		Id:          helpers.Generate(),
		Reporter:    vanity,
		TargetId:    getbody.TargetId,
		Type:        getbody.Type,
		Reason:      getbody.Reason,
		Description: getbody.Description,
		CreatedAt:   now(),
	}

	if err = store.CreateReport(report); err != nil {
		helpers.Logger.Error().Err(err).Str("target", report.TargetId).Msg("cannot create report")
		// the pair was not reported, it can be sent again
		if acquired {
			if err := store.ReleaseReport(vanity, report.TargetId); err != nil {
				helpers.Logger.Warn().Err(err).Msg("cannot release report cooldown")
			}
		}
		if errors.Is(err, database.ErrInvalidUser) {
			sendError(w, http.StatusNotFound, ErrorInvalidUser)
			return
		}
		sendError(w, http.StatusInternalServerError, ErrorInternalServerError)
		return
	}

	helpers.IncrementReports(string(report.Reason))
	helpers.PublishEvent(helpers.SubjectReport, report)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}
