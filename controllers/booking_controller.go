package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// BookingController handles the repair appointment endpoints.
type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateBooking handles POST /appointments.
func (bc *BookingController) CreateBooking(ctx *gin.Context) {
	var input services.CreateBookingInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.CreateBooking(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "appointment": appointment})
}

type assignMechanicRequest struct {
	Mechanic string `json:"mechanic" binding:"required"`
}

// AssignMechanic handles PUT /secretary/appointment/:id/mechanic.
func (bc *BookingController) AssignMechanic(ctx *gin.Context) {
	var req assignMechanicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	employee := middleware.CurrentUser(ctx)
	appointment, err := bc.bookings.AssignMechanic(ctx.Request.Context(), ctx.Param("id"), req.Mechanic, employee)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type updateAppointmentStatusRequest struct {
	Status string `json:"appointmentStatus" binding:"required"`
}

// UpdateStatus handles PUT /secretary/appointment/:id.
func (bc *BookingController) UpdateStatus(ctx *gin.Context) {
	var req updateAppointmentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	employee := middleware.CurrentUser(ctx)
	appointment, err := bc.bookings.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status, employee)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type backJobRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// RequestBackJob handles PUT /appointment/:id/backjob.
func (bc *BookingController) RequestBackJob(ctx *gin.Context) {
	var req backJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.RequestBackJob(ctx.Request.Context(), ctx.Param("id"), req.Comment)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type rescheduleRequest struct {
	AppointmentDate *time.Time `json:"appointmentDate"`
	TimeSlot        string     `json:"timeSlot"`
}

// Reschedule handles PUT /secretary/appointment/:id/reschedule.
func (bc *BookingController) Reschedule(ctx *gin.Context) {
	var req rescheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.Reschedule(ctx.Request.Context(), ctx.Param("id"), req.AppointmentDate, req.TimeSlot)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type addPartsRequest struct {
	Parts []services.PartInput `json:"parts" binding:"required,min=1"`
}

// AddParts handles PUT /secretary/appointment/:id/parts. The submitted
// list replaces whatever parts were attached before.
func (bc *BookingController) AddParts(ctx *gin.Context) {
	var req addPartsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.AddParts(ctx.Request.Context(), ctx.Param("id"), req.Parts)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type addServicesRequest struct {
	Services []string `json:"services" binding:"required,min=1"`
}

// AddServices handles PUT /secretary/appointment/:id/services. New
// lines append to the booking; existing lines stay.
func (bc *BookingController) AddServices(ctx *gin.Context) {
	var req addServicesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.AddServices(ctx.Request.Context(), ctx.Param("id"), req.Services)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

// RemoveService handles DELETE /secretary/appointment/:id/service/:lineId.
func (bc *BookingController) RemoveService(ctx *gin.Context) {
	appointment, err := bc.bookings.RemoveService(ctx.Request.Context(), ctx.Param("id"), ctx.Param("lineId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

type proofRequest struct {
	Image string `json:"image" binding:"required"`
}

// UploadMechanicProof handles PUT /mechanic/appointment/:id/proof.
func (bc *BookingController) UploadMechanicProof(ctx *gin.Context) {
	var req proofRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.UploadMechanicProof(ctx.Request.Context(), ctx.Param("id"), req.Image)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

// UploadCustomerProof handles PUT /appointment/:id/proof.
func (bc *BookingController) UploadCustomerProof(ctx *gin.Context) {
	var req proofRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	appointment, err := bc.bookings.UploadCustomerProof(ctx.Request.Context(), ctx.Param("id"), req.Image)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

// MyBookings handles GET /me/appointments.
func (bc *BookingController) MyBookings(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := bc.bookings.MyBookings(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointments": list})
}

// AllBookings handles GET /secretary/appointments.
func (bc *BookingController) AllBookings(ctx *gin.Context) {
	list, totalAmountServices, err := bc.bookings.AllBookings(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":             true,
		"appointments":        list,
		"totalAmountServices": totalAmountServices,
	})
}

// GetBooking handles GET /appointment/:id.
func (bc *BookingController) GetBooking(ctx *gin.Context) {
	appointment, err := bc.bookings.GetBooking(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}

// DeleteBooking handles DELETE /admin/appointment/:id.
func (bc *BookingController) DeleteBooking(ctx *gin.Context) {
	if err := bc.bookings.DeleteBooking(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment deleted"})
}

// MechanicTasks handles GET /mechanic/tasks.
func (bc *BookingController) MechanicTasks(ctx *gin.Context) {
	mechanic := middleware.CurrentUser(ctx)
	list, count, err := bc.bookings.MechanicTasks(ctx.Request.Context(), mechanic.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "appointments": list, "count": count})
}

type feedbackRequest struct {
	Rating  float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// SubmitFeedback handles PUT /appointment/:id/feedback.
func (bc *BookingController) SubmitFeedback(ctx *gin.Context) {
	var req feedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	customer := middleware.CurrentUser(ctx)
	feedback, err := bc.bookings.SubmitFeedback(ctx.Request.Context(), ctx.Param("id"), customer, req.Rating, req.Comment)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "feedback": feedback})
}

// ListFeedback handles GET /admin/feedbacks.
func (bc *BookingController) ListFeedback(ctx *gin.Context) {
	list, err := bc.bookings.ListFeedback(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "feedbacks": list})
}
