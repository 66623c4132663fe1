package child

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"siat-api/internal/apperr"
	"siat-api/internal/logs"
	"siat-api/internal/middlewares"
	"siat-api/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Photo field names. The second name of each pair is the one the legacy web
// form posts.
var (
	childPhotoFields    = []string{"childPhoto", "foto_crianca"}
	guardianPhotoFields = []string{"guardianPhoto", "foto_responsavel"}
)

type ChildController struct {
	ChildService ChildServicePort
	LogService   AuditPort
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// formUpload opens the first present file among names. The returned close
// func is never nil.
func formUpload(c *gin.Context, names []string) (*Upload, func(), error) {
	noop := func() {}
	for _, name := range names {
		fh, err := c.FormFile(name)
		if err != nil || fh == nil {
			continue
		}
		return openUpload(fh)
	}
	return nil, noop, nil
}

func openUpload(fh *multipart.FileHeader) (*Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperr.IO("could not read uploaded photo", err)
	}
	name := fh.Filename
	if util.ExtFromFilename(name) == "" {
		name += util.ExtFromFilenameOrMime(name, fh.Header.Get("Content-Type"))
	}
	return &Upload{Filename: name, Content: f}, func() { f.Close() }, nil
}

// bindRegistration reads the form fields and both optional photos.
func bindRegistration(c *gin.Context) (RegistrationInput, *Upload, *Upload, func(), error) {
	var in RegistrationInput
	if err := c.ShouldBind(&in); err != nil {
		return in, nil, nil, func() {}, apperr.Validation("invalid form: %v", err)
	}

	childPhoto, closeChild, err := formUpload(c, childPhotoFields)
	if err != nil {
		return in, nil, nil, func() {}, err
	}
	guardianPhoto, closeGuardian, err := formUpload(c, guardianPhotoFields)
	if err != nil {
		closeChild()
		return in, nil, nil, func() {}, err
	}
	return in, childPhoto, guardianPhoto, func() { closeChild(); closeGuardian() }, nil
}

func (cc *ChildController) CreateChild(c *gin.Context) {
	in, childPhoto, guardianPhoto, closeFiles, err := bindRegistration(c)
	defer closeFiles()
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	id, err := cc.ChildService.Create(c.Request.Context(), in, childPhoto, guardianPhoto)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	cc.audit(c, logs.LevelInfo, "CREATE_CHILD", id, fmt.Sprintf("Child registered: %s", in.Name))
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

func (cc *ChildController) UpdateChild(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	in, childPhoto, guardianPhoto, closeFiles, err := bindRegistration(c)
	defer closeFiles()
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if _, err := cc.ChildService.Update(c.Request.Context(), id, in, childPhoto, guardianPhoto); err != nil {
		apperr.Respond(c, err)
		return
	}

	cc.audit(c, logs.LevelInfo, "UPDATE_CHILD", id, fmt.Sprintf("Child updated: %s", in.Name))
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

func (cc *ChildController) GetChild(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	reg, err := cc.ChildService.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (cc *ChildController) ListChildren(c *gin.Context) {
	items, err := cc.ChildService.List(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (cc *ChildController) DeleteChild(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := cc.ChildService.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}

	cc.audit(c, logs.LevelWarn, "DELETE_CHILD", id, fmt.Sprintf("Child %d deleted", id))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (cc *ChildController) ExportChildren(c *gin.Context) {
	data, err := cc.ChildService.Export(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename(time.Now())+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (cc *ChildController) audit(c *gin.Context, level, action string, id uint, msg string) {
	if cc.LogService == nil {
		return
	}
	cc.LogService.Record(logs.SystemLog{
		Level:      level,
		Service:    "child",
		UserID:     middlewares.UserID(c),
		Action:     action,
		Message:    msg,
		ResourceID: &id,
	}, nil)
}
