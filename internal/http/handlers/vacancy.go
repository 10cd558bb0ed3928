package handlers

import (
	"net/http"

	"zorgmatch/internal/app"
	"zorgmatch/internal/domain/vacancy"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

type VacancyHandler struct {
	vacancies *app.VacancyService
}

func NewVacancyHandler(vacancies *app.VacancyService) *VacancyHandler {
	return &VacancyHandler{vacancies: vacancies}
}

type vacancyRequest struct {
	OrganisationName string   `json:"organisation_name"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Location         string   `json:"location"`
	ContractType     string   `json:"contract_type"`
	HourlyRate       string   `json:"hourly_rate"`
	EducationLevel   string   `json:"education_level"`
}

type vacancyCreatedResponse struct {
	*vacancy.Vacancy
	Entitlement vacancy.Entitlement `json:"entitlement"`
}

func (h *VacancyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req vacancyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, entitlement, err := h.vacancies.Create(r.Context(), vacancy.Vacancy{
		UserID:           userID,
		OrganisationName: req.OrganisationName,
		Title:            req.Title,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Location:         req.Location,
		ContractType:     req.ContractType,
		HourlyRate:       req.HourlyRate,
		EducationLevel:   req.EducationLevel,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, vacancyCreatedResponse{Vacancy: created, Entitlement: entitlement})
}

func (h *VacancyHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.vacancies.ListActive(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *VacancyHandler) Get(w http.ResponseWriter, r *http.Request) {
	vacancyID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.vacancies.Get(r.Context(), vacancyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *VacancyHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.vacancies.ListOwn(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *VacancyHandler) CountOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	count, err := h.vacancies.CountOwn(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"count": count})
}
