package console

import (
	"errors"
	"fmt"
	"net/http"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
)

type predictionPage struct {
	employeeFormPage
	Result  *api.Prediction
	Batch   *api.BatchResult
	History []api.HistoryEntry
}

func (h *Handler) predictionPage(r *http.Request, form employee.Form) predictionPage {
	page := predictionPage{employeeFormPage: newEmployeeFormPage(form)}
	history, err := h.predictions.History(r.Context(), h.historyLimit)
	if err != nil {
		// History is secondary; the page stays usable without it.
		h.logger.WarnContext(r.Context(), "failed to load prediction history", "error", err)
		return page
	}
	page.History = history
	return page
}

func defaultPredictionForm() employee.Form {
	score := fmt.Sprint(employee.DefaultSatisfaction)
	return employee.Form{JobSatisfaction: score, WorkLifeBalance: score, EnvironmentSatisfaction: score}
}

func (h *Handler) handlePredictionPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "prediction", "Prediction", h.predictionPage(r, defaultPredictionForm()), nil)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "prediction", "Prediction", h.predictionPage(r, defaultPredictionForm()),
			&Flash{Kind: FlashError, Message: "invalid form submission"})
		return
	}
	form := employee.FormFromValues(r.PostForm)

	features, err := form.Features()
	if err != nil {
		h.render(w, r, statusFor(err), "prediction", "Prediction", h.predictionPage(r, form), &Flash{Kind: FlashError, Message: err.Error()})
		return
	}

	result, err := h.predictions.Single(r.Context(), features)
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "predict")
		if handled {
			return
		}
		h.render(w, r, status, "prediction", "Prediction", h.predictionPage(r, form), flash)
		return
	}

	page := h.predictionPage(r, form)
	page.Result = result
	h.render(w, r, http.StatusOK, "prediction", "Prediction", page, &Flash{Kind: FlashSuccess, Message: "AI prediction ready!"})
}

func (h *Handler) handleBatchPredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		message := "Upload a CSV first"
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message = fmt.Sprintf("CSV exceeds %d bytes", tooLarge.Limit)
			status = http.StatusRequestEntityTooLarge
		}
		h.render(w, r, status, "prediction", "Prediction", h.predictionPage(r, defaultPredictionForm()),
			&Flash{Kind: FlashError, Message: message})
		return
	}
	defer file.Close()

	result, err := h.predictions.Batch(r.Context(), header.Filename, file)
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "batch predict")
		if handled {
			return
		}
		h.render(w, r, status, "prediction", "Prediction", h.predictionPage(r, defaultPredictionForm()), flash)
		return
	}

	h.logger.InfoContext(r.Context(), "batch prediction complete", "rows", result.Total, "filename", header.Filename)
	page := h.predictionPage(r, defaultPredictionForm())
	page.Batch = result
	h.render(w, r, http.StatusOK, "prediction", "Prediction", page,
		&Flash{Kind: FlashSuccess, Message: fmt.Sprintf("Predicted %d employees", result.Total)})
}
