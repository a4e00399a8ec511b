package handlers

import (
	"errors"

	"github.com/aDp08/web-gallery-backend/internal/metrics"
	service "github.com/aDp08/web-gallery-backend/internal/services"
	utils "github.com/aDp08/web-gallery-backend/internal/utis"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	MsgUploaded      = "Image successfully uploaded"
	MsgUpdated       = "Image successfully updated"
	MsgDeleted       = "Deleted Image Successfully"
	MsgImageMissing  = "Image not found"
	MsgImageTooLarge = "Image payload too large"
	MsgInvalidID     = "Invalid image ID format"
	MsgNotFound      = "Image not Found"
	MsgNoImages      = "No images found"
	MsgInvalidBody   = "Invalid request body"
	MsgUploadFailed  = "Server error during image upload"
	MsgListFailed    = "Server error fetching images"
	MsgDeleteFailed  = "Server error during image deletion"
	MsgUpdateFailed  = "Server error during image update"
)

type imageRequest struct {
	Image string  `json:"image"`
	Title *string `json:"title"`
}

type Handler struct {
	svc     *service.ImageService
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
}

func NewHandler(svc *service.ImageService, log *zap.SugaredLogger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, log: log, metrics: m}
}

// POST /api/upload {image, title}
func (h *Handler) Upload(c *fiber.Ctx) error {
	var req imageRequest
	if err := parseBody(c, &req); err != nil {
		return utils.JSONMessage(c, fiber.StatusBadRequest, MsgInvalidBody)
	}
	img, err := h.svc.Upload(c.UserContext(), req.Title, req.Image)
	if err != nil {
		return h.fail(c, err, MsgUploadFailed)
	}
	return utils.JSONData(c, fiber.StatusOK, MsgUploaded, img)
}

// GET /api/allImages
func (h *Handler) ListAll(c *fiber.Ctx) error {
	imgs, err := h.svc.ListAll(c.UserContext())
	if err != nil {
		return h.fail(c, err, MsgListFailed)
	}
	return c.Status(fiber.StatusOK).JSON(imgs)
}

// DELETE /api/image/:id
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	h.log.Debugw("deleting image", "id", id)
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err, MsgDeleteFailed)
	}
	return utils.JSONMessage(c, fiber.StatusOK, MsgDeleted)
}

// PUT /api/image/:id {image?, title?}
func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var req imageRequest
	if err := parseBody(c, &req); err != nil {
		return utils.JSONMessage(c, fiber.StatusBadRequest, MsgInvalidBody)
	}
	h.log.Debugw("updating image", "id", id, "new_image", req.Image != "")
	img, err := h.svc.Update(c.UserContext(), id, req.Title, req.Image)
	if err != nil {
		return h.fail(c, err, MsgUpdateFailed)
	}
	return utils.JSONData(c, fiber.StatusOK, MsgUpdated, img)
}

// fail maps service errors onto status codes. Upstream detail is logged and
// never sent to the caller.
func (h *Handler) fail(c *fiber.Ctx, err error, serverMsg string) error {
	switch {
	case errors.Is(err, utils.ErrImageRequired):
		return utils.JSONMessage(c, fiber.StatusBadRequest, MsgImageMissing)
	case errors.Is(err, utils.ErrImageTooLarge):
		return utils.JSONMessage(c, fiber.StatusBadRequest, MsgImageTooLarge)
	case errors.Is(err, utils.ErrInvalidID):
		return utils.JSONMessage(c, fiber.StatusBadRequest, MsgInvalidID)
	case errors.Is(err, utils.ErrNoImages):
		return utils.JSONMessage(c, fiber.StatusNotFound, MsgNoImages)
	case errors.Is(err, utils.ErrImageNotFound):
		return utils.JSONMessage(c, fiber.StatusNotFound, MsgNotFound)
	}

	op := "unknown"
	var up *utils.UpstreamError
	if errors.As(err, &up) {
		op = up.Op
	}
	if h.metrics != nil {
		h.metrics.UpstreamFailure(op)
	}
	h.log.Errorw(serverMsg, "op", op, "path", c.Path(), "error", err)
	return utils.JSONMessage(c, fiber.StatusInternalServerError, serverMsg)
}

// parseBody only reads JSON. An empty or non-JSON body leaves the request
// blank, so POST answers "Image not found" and PUT is a title clear.
func parseBody(c *fiber.Ctx, out *imageRequest) error {
	if len(c.Body()) == 0 || !c.Is("json") {
		return nil
	}
	return c.BodyParser(out)
}
