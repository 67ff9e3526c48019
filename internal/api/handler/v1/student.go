package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
)

const maxImportSize = 5 << 20

var errMissingFile = errors.New("multipart field \"file\" is required")

type StudentService interface {
	Create(ctx context.Context, student domain.Student) (domain.Student, error)
	Get(ctx context.Context, id uint) (domain.Student, error)
	List(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, int64, error)
	Update(ctx context.Context, student domain.Student) (domain.Student, error)
	Delete(ctx context.Context, id uint) error
	Import(ctx context.Context, rows []report.StudentRow) (domain.StudentImport, error)
}

type StudentHandler struct {
	svc StudentService
}

func NewStudentHandler(svc StudentService) *StudentHandler {
	return &StudentHandler{
		svc: svc,
	}
}

// HandleListStudents godoc
// @Summary      List students
// @Tags         students
// @Produce      json
// @Param        page        query  int     false "page (1-based)"
// @Param        limit       query  int     false "page size"
// @Param        q           query  string  false "search by name or admission number"
// @Param        class_name  query  string  false "class"
// @Param        status      query  string  false "status"
// @Success      200  {object}  response.List{data=[]domain.Student}
// @Failure      401  {object}  response.Err
// @Router       /admin/students [get]
// @Security BearerAuth
func (h *StudentHandler) HandleListStudents(ctx *gin.Context) {
	var q request.StudentQuery
	if !bindQuery(ctx, &q) {
		return
	}
	filter := q.ToFilter()

	students, total, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListStudents -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewList(students, total, filter.Page))
}

// HandleCreateStudent godoc
// @Summary      Create a student
// @Tags         students
// @Produce      json
// @Param        request  body      request.StudentRequest true "request body"
// @Success      201      {object}  domain.Student
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/students [post]
// @Security BearerAuth
func (h *StudentHandler) HandleCreateStudent(ctx *gin.Context) {
	var req request.StudentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	student, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), student)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateStudent -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetStudent godoc
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Param        id   path      int true "student id"
// @Success      200  {object}  domain.Student
// @Failure      404  {object}  response.Err
// @Router       /admin/students/{id} [get]
// @Security BearerAuth
func (h *StudentHandler) HandleGetStudent(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	student, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetStudent -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleUpdateStudent godoc
// @Summary      Update a student
// @Tags         students
// @Produce      json
// @Param        id       path      int true "student id"
// @Param        request  body      request.StudentRequest true "request body"
// @Success      200      {object}  domain.Student
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/students/{id} [put]
// @Security BearerAuth
func (h *StudentHandler) HandleUpdateStudent(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req request.StudentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	student, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	student.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), student)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateStudent -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteStudent godoc
// @Summary      Delete a student and their results
// @Tags         students
// @Param        id   path  int true "student id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /admin/students/{id} [delete]
// @Security BearerAuth
func (h *StudentHandler) HandleDeleteStudent(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteStudent -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleImportStudents godoc
// @Summary      Import students from an Excel workbook
// @Description  Reads the first sheet; rows that fail validation are reported and skipped.
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file true "xlsx workbook"
// @Success      200   {object}  domain.StudentImport
// @Failure      400   {object}  response.Err
// @Router       /admin/students/import [post]
// @Security BearerAuth
func (h *StudentHandler) HandleImportStudents(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImportSize)

	fh, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errMissingFile))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	defer f.Close()

	rows, err := report.ParseStudentSheet(f)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(clientErr(err)))
		return
	}

	summary, err := h.svc.Import(ctx.Request.Context(), rows)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleImportStudents -> h.svc.Import", err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleImportTemplate godoc
// @Summary      Download the student import template
// @Tags         students
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /admin/students/import/template [get]
// @Security BearerAuth
func (h *StudentHandler) HandleImportTemplate(ctx *gin.Context) {
	attachment(ctx, "students_template.xlsx")
	ctx.Header("Content-Type", xlsxContentType)

	if err := report.StudentTemplate(ctx.Writer); err != nil {
		renderServiceErr(ctx, "v1.HandleImportTemplate -> report.StudentTemplate", err)
		return
	}
}
