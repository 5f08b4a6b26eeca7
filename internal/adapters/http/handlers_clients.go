package web

import (
	"net/http"
	"time"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/reminder"
)

// clientSortColumns are the list sort keys the client store accepts.
var clientSortColumns = []string{"name", "end_date", "created", "debt"}

type clientJSON struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone"`
	Cedula         string    `json:"cedula"`
	FingerprintID  string    `json:"fingerprintId,omitempty"`
	MembershipType string    `json:"membershipType"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	Status         string    `json:"status"`
	Debt           float64   `json:"debt"`
	MedicalNotes   string    `json:"medicalNotes,omitempty"`
	WorkoutPlanID  string    `json:"workoutPlanId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toClientJSON(c client.Client) clientJSON {
	return clientJSON{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Cedula:         c.Cedula,
		FingerprintID:  c.FingerprintID,
		MembershipType: c.MembershipType,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Status:         c.Status,
		Debt:           c.Debt,
		MedicalNotes:   c.MedicalNotes,
		WorkoutPlanID:  c.WorkoutPlanID,
		CreatedAt:      c.CreatedAt,
	}
}

type decisionJSON struct {
	AccessGranted bool   `json:"accessGranted"`
	Label         string `json:"label"`
	DaysPastDue   int    `json:"daysPastDue"`
	Message       string `json:"message"`
}

type paymentJSON struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	Amount   float64   `json:"amount"`
	Concept  string    `json:"concept"`
	Date     time.Time `json:"date"`
}

func toPaymentJSON(p payment.Payment) paymentJSON {
	return paymentJSON{ID: p.ID, ClientID: p.ClientID, Amount: p.Amount, Concept: p.Concept, Date: p.Date}
}

type attendanceJSON struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName,omitempty"`
	AccessGranted bool      `json:"accessGranted"`
	Timestamp     time.Time `json:"timestamp"`
}

func toAttendanceJSON(e attendance.Event, name string) attendanceJSON {
	return attendanceJSON{ID: e.ID, ClientID: e.ClientID, ClientName: name, AccessGranted: e.AccessGranted, Timestamp: e.Timestamp}
}

type clientDetailResponse struct {
	Client         clientJSON       `json:"client"`
	Decision       *decisionJSON    `json:"decision"`
	Badge          string           `json:"badge"`
	InvalidEndDate bool             `json:"invalidEndDate"`
	GraceDays      int              `json:"graceDays"`
	Payments       []paymentJSON    `json:"payments"`
	Attendance     []attendanceJSON `json:"attendance"`
	WorkoutPlan    *workoutPlanJSON `json:"workoutPlan"`
}

// handleListClients handles GET /api/clients?q=&status=&sort=&dir=&page=&per_page=
func (a *app) handleListClients(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), clientSortColumns)
	if params.Status != "" && !client.ValidStatus(params.Status) {
		badRequest(w, r, client.ErrInvalidStatus.Error())
		return
	}

	query := projections.GetClientListQuery{
		Search:  params.Search,
		Status:  params.Status,
		Sort:    params.Sort,
		Dir:     params.Dir,
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	deps := projections.GetClientListDeps{
		ClientStore: a.stores.ClientStore,
		GraceDays:   a.graceDays,
		Now:         a.now,
	}
	result, err := projections.QueryGetClientList(r.Context(), query, deps)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if result.Clients == nil {
		result.Clients = []projections.ClientListRow{}
	}
	writeJSON(w, http.StatusOK, result)
}

type registerClientRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Cedula        string `json:"cedula"`
	FingerprintID string `json:"fingerprintId"`
	MembershipID  string `json:"membershipId"`
	StartDate     string `json:"startDate"`
	MedicalNotes  string `json:"medicalNotes"`
	WorkoutPlanID string `json:"workoutPlanId"`
}

// handleRegisterClient handles POST /api/clients
func (a *app) handleRegisterClient(w http.ResponseWriter, r *http.Request) {
	var req registerClientRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	deps := orchestrators.RegisterClientDeps{
		ClientStore:     a.stores.ClientStore,
		MembershipStore: a.stores.MembershipStore,
		WorkoutStore:    a.stores.WorkoutStore,
		GenerateID:      a.generateID,
		Now:             a.now,
	}
	c, err := orchestrators.ExecuteRegisterClient(r.Context(), orchestrators.RegisterClientInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Cedula:        req.Cedula,
		FingerprintID: req.FingerprintID,
		MembershipID:  req.MembershipID,
		StartDate:     req.StartDate,
		MedicalNotes:  req.MedicalNotes,
		WorkoutPlanID: req.WorkoutPlanID,
	}, deps)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientJSON(c))
}

// handleGetClient handles GET /api/clients/{id}
func (a *app) handleGetClient(w http.ResponseWriter, r *http.Request) {
	deps := projections.GetClientDetailDeps{
		ClientStore:     a.stores.ClientStore,
		PaymentStore:    a.stores.PaymentStore,
		AttendanceStore: a.stores.AttendanceStore,
		WorkoutStore:    a.stores.WorkoutStore,
		GraceDays:       a.graceDays,
		Now:             a.now,
	}
	result, err := projections.QueryGetClientDetail(r.Context(), projections.GetClientDetailQuery{ClientID: r.PathValue("id")}, deps)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := clientDetailResponse{
		Client:         toClientJSON(result.Client),
		Badge:          result.Badge,
		InvalidEndDate: result.InvalidEndDate,
		GraceDays:      result.GraceDays,
		Payments:       make([]paymentJSON, 0, len(result.Payments)),
		Attendance:     make([]attendanceJSON, 0, len(result.Attendance)),
	}
	if result.Decision != nil {
		resp.Decision = toDecisionJSON(*result.Decision)
	}
	for _, p := range result.Payments {
		resp.Payments = append(resp.Payments, toPaymentJSON(p))
	}
	for _, e := range result.Attendance {
		resp.Attendance = append(resp.Attendance, toAttendanceJSON(e, ""))
	}
	if result.WorkoutPlan != nil {
		plan := toWorkoutPlanJSON(*result.WorkoutPlan)
		resp.WorkoutPlan = &plan
	}
	writeJSON(w, http.StatusOK, resp)
}

func toDecisionJSON(d access.Decision) *decisionJSON {
	return &decisionJSON{
		AccessGranted: d.AccessGranted,
		Label:         string(d.Label),
		DaysPastDue:   d.DaysPastDue,
		Message:       d.Message(),
	}
}

type updateClientRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Cedula         string  `json:"cedula"`
	FingerprintID  string  `json:"fingerprintId"`
	MembershipType string  `json:"membershipType"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Status         string  `json:"status"`
	Debt           float64 `json:"debt"`
	MedicalNotes   string  `json:"medicalNotes"`
}

// handleUpdateClient handles PUT /api/clients/{id}
func (a *app) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	c, err := orchestrators.ExecuteUpdateClient(r.Context(), orchestrators.UpdateClientInput{
		ID:             r.PathValue("id"),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Cedula:         req.Cedula,
		FingerprintID:  req.FingerprintID,
		MembershipType: req.MembershipType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         req.Status,
		Debt:           req.Debt,
		MedicalNotes:   req.MedicalNotes,
	}, orchestrators.UpdateClientDeps{ClientStore: a.stores.ClientStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientJSON(c))
}

// handleDeleteClient handles DELETE /api/clients/{id}
func (a *app) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteClient(r.Context(), r.PathValue("id"), orchestrators.DeleteClientDeps{ClientStore: a.stores.ClientStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleSetClientStatus handles PUT /api/clients/{id}/status
func (a *app) handleSetClientStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	c, err := orchestrators.ExecuteSetClientStatus(r.Context(),
		orchestrators.SetClientStatusInput{ID: r.PathValue("id"), Status: req.Status},
		orchestrators.SetClientStatusDeps{ClientStore: a.stores.ClientStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientJSON(c))
}

type renewRequest struct {
	MembershipID string `json:"membershipId"`
	StartDate    string `json:"startDate"`
	PaymentDate  string `json:"paymentDate"`
}

type renewResponse struct {
	Client  clientJSON  `json:"client"`
	Payment paymentJSON `json:"payment"`
}

// handleRenewMembership handles POST /api/clients/{id}/renew
func (a *app) handleRenewMembership(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	deps := orchestrators.RenewMembershipDeps{
		ClientStore:     a.stores.ClientStore,
		MembershipStore: a.stores.MembershipStore,
		PaymentStore:    a.stores.PaymentStore,
		GenerateID:      a.generateID,
		Now:             a.now,
	}
	result, err := orchestrators.ExecuteRenewMembership(r.Context(), orchestrators.RenewMembershipInput{
		ClientID:     r.PathValue("id"),
		MembershipID: req.MembershipID,
		StartDate:    req.StartDate,
		PaymentDate:  req.PaymentDate,
	}, deps)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renewResponse{Client: toClientJSON(result.Client), Payment: toPaymentJSON(result.Payment)})
}

type reminderResponse struct {
	ClientID string `json:"clientId"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Phone    string `json:"phone"`
	URL      string `json:"url"`
}

// handleClientReminder handles GET /api/clients/{id}/reminder, the WhatsApp
// click-to-chat link staff open from the client view.
func (a *app) handleClientReminder(w http.ResponseWriter, r *http.Request) {
	c, err := a.stores.ClientStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rem := reminder.Build(c, a.opts.GymName, a.now())
	writeJSON(w, http.StatusOK, reminderResponse{
		ClientID: c.ID,
		Kind:     string(rem.Kind),
		Text:     rem.Text,
		Phone:    reminder.NormalizePhone(c.Phone, a.opts.PhoneCountryCode),
		URL:      reminder.WhatsAppURL(c.Phone, a.opts.PhoneCountryCode, rem.Text),
	})
}
