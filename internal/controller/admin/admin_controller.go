package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	adminService       service.AdminService
	sessionService     service.SessionService
	scoringService     service.ScoringService
	calibrationService service.CalibrationService
	exportService      service.ExportService
}

func NewAdminController(
	adminService service.AdminService,
	sessionService service.SessionService,
	scoringService service.ScoringService,
	calibrationService service.CalibrationService,
	exportService service.ExportService,
) *AdminController {
	return &AdminController{
		adminService:       adminService,
		sessionService:     sessionService,
		scoringService:     scoringService,
		calibrationService: calibrationService,
		exportService:      exportService,
	}
}

// CreateCandidate godoc
// @Summary (Admin) Register a candidate and generate an access code
// @Tags Admin - Candidates
// @Accept json
// @Produce json
// @Param candidate body dto.CreateCandidateRequest true "Candidate details"
// @Success 201 {object} dto.CreatedCandidateDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/candidates [post]
func (c *AdminController) CreateCandidate(ctx *gin.Context) {
	var req dto.CreateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.adminService.CreateCandidate(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateCandidate failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the item bank
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question details"
// @Success 201 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.adminService.CreateQuestion(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateQuestion failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// PauseExam godoc
// @Summary (Admin) Pause a running exam session
// @Tags Admin - Sessions
// @Produce json
// @Param candidate_id path int true "Candidate ID"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /admin/candidates/{candidate_id}/pause [post]
func (c *AdminController) PauseExam(ctx *gin.Context) {
	candidateID, ok := pathID(ctx, "candidate_id")
	if !ok {
		return
	}

	view, err := c.sessionService.Pause(candidateID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Only an in-progress exam can be paused"})
			return
		}
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("PauseExam failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to pause exam"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// ResumeExam godoc
// @Summary (Admin) Resume a paused exam session
// @Tags Admin - Sessions
// @Produce json
// @Param candidate_id path int true "Candidate ID"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 409 {object} dto.ErrorResponse "Session is not paused"
// @Router /admin/candidates/{candidate_id}/resume [post]
func (c *AdminController) ResumeExam(ctx *gin.Context) {
	candidateID, ok := pathID(ctx, "candidate_id")
	if !ok {
		return
	}

	view, err := c.sessionService.Resume(candidateID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Only a paused exam can be resumed"})
			return
		}
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("ResumeExam failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to resume exam"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// CompleteExam godoc
// @Summary (Admin) Force-complete an exam and seal its result
// @Tags Admin - Sessions
// @Produce json
// @Param candidate_id path int true "Candidate ID"
// @Success 200 {object} dto.ResultDTO
// @Failure 409 {object} dto.ErrorResponse "Session was never started"
// @Router /admin/candidates/{candidate_id}/complete [post]
func (c *AdminController) CompleteExam(ctx *gin.Context) {
	candidateID, ok := pathID(ctx, "candidate_id")
	if !ok {
		return
	}

	result, err := c.sessionService.Complete(candidateID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Exam was never started"})
			return
		}
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("CompleteExam failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to complete exam"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCandidateResult godoc
// @Summary (Admin) Stored result for one candidate
// @Tags Admin - Results
// @Produce json
// @Param candidate_id path int true "Candidate ID"
// @Success 200 {object} dto.ResultDTO
// @Failure 404 {object} dto.ErrorResponse "Result not computed yet"
// @Router /admin/candidates/{candidate_id}/result [get]
func (c *AdminController) GetCandidateResult(ctx *gin.Context) {
	candidateID, ok := pathID(ctx, "candidate_id")
	if !ok {
		return
	}

	result, err := c.scoringService.ResultFor(candidateID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No result available for this candidate"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListCompletedCandidates godoc
// @Summary (Admin) List completed candidates for a company
// @Tags Admin - Results
// @Produce json
// @Param company_id path int true "Company ID"
// @Success 200 {array} dto.CandidateSummaryDTO
// @Router /admin/companies/{company_id}/results [get]
func (c *AdminController) ListCompletedCandidates(ctx *gin.Context) {
	companyID, ok := pathID(ctx, "company_id")
	if !ok {
		return
	}

	summaries, err := c.adminService.ListCompletedCandidates(companyID)
	if err != nil {
		log.Error().Err(err).Uint("companyID", companyID).Msg("ListCompletedCandidates failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list results"})
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// ExportResults godoc
// @Summary (Admin) Download completed results as an Excel workbook
// @Tags Admin - Results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param company_id path int true "Company ID"
// @Success 200 {file} binary
// @Router /admin/companies/{company_id}/results/export [get]
func (c *AdminController) ExportResults(ctx *gin.Context) {
	companyID, ok := pathID(ctx, "company_id")
	if !ok {
		return
	}

	data, err := c.exportService.ExportResults(companyID)
	if err != nil {
		log.Error().Err(err).Uint("companyID", companyID).Msg("ExportResults failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to export results"})
		return
	}

	filename := fmt.Sprintf("results_%d_%s.xlsx", companyID, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// RunCalibration godoc
// @Summary (Admin) Recalculate empirical difficulty for the item bank
// @Tags Admin - Calibration
// @Produce json
// @Success 200 {object} dto.CalibrationReportDTO
// @Router /admin/calibration/run [post]
func (c *AdminController) RunCalibration(ctx *gin.Context) {
	report, err := c.calibrationService.CalibrateAll()
	if err != nil {
		log.Error().Err(err).Msg("RunCalibration failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Calibration run failed"})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// VerifyCertificate godoc
// @Summary Verify a certificate reference
// @Description Public endpoint. An unknown reference returns valid=false, not an error.
// @Tags Certificates
// @Produce json
// @Param ref path string true "Certificate reference"
// @Success 200 {object} dto.CertificateDTO
// @Router /certificates/{ref} [get]
func (c *AdminController) VerifyCertificate(ctx *gin.Context) {
	cert, err := c.adminService.VerifyCertificate(ctx.Param("ref"))
	if err != nil {
		log.Error().Err(err).Msg("VerifyCertificate failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to verify certificate"})
		return
	}
	ctx.JSON(http.StatusOK, cert)
}

func pathID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}
