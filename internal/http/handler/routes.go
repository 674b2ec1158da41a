package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tenanthub/internal/auth"
	"tenanthub/internal/broker"
	"tenanthub/internal/http/middleware"
	"tenanthub/internal/model"
	"tenanthub/internal/service"
)

// tenantHeader carries the tenant id for event publication. Event posting is
// authenticated by tenant id only; document routes require a bearer token.
const tenantHeader = "x-tenant-id"

var validate = validator.New()

// RegisterRoutes attaches all HTTP routes to the Fiber app.
func RegisterRoutes(app *fiber.App, resolver *auth.Resolver, events service.EventService, docs service.DocumentService, hub broker.Broker, log zerolog.Logger) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", APIDocs())

	app.Get("/healthz", LivenessProbe())

	app.Post("/events", PostEvent(events))

	authed := middleware.BearerAuth(resolver)
	app.Get("/users/me", authed, CurrentUser())
	app.Get("/documents", authed, ListDocuments(docs))
	app.Post("/documents", authed, UploadDocument(docs))
	app.Get("/documents/:id", authed, DownloadDocument(docs))
	app.Delete("/documents/:id", authed, DeleteDocument(docs))

	app.Use("/ws", WebSocketUpgrade())
	app.Get("/ws", SubscribeEvents(hub, log))
}

// LivenessProbe reports process liveness. There are no external dependencies
// to check: state is in memory and the uploads root is validated at startup.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type createEventRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// PostEvent creates a tenant-scoped event and fans it out to the tenant's
// live subscribers.
func PostEvent(events service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get(tenantHeader)
		if tenantID == "" {
			return writeError(c, fiber.StatusBadRequest, "TENANT_REQUIRED", "x-tenant-id header is required")
		}

		var req createEventRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "message must not be empty")
		}

		ev, err := events.CreateAndPublish(c.UserContext(), tenantID, req.Message)
		if err != nil {
			if errors.Is(err, service.ErrTenantRequired) || errors.Is(err, service.ErrMessageRequired) {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(ev)
	}
}

// CurrentUser returns the authenticated caller's identity.
func CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.JSON(user)
	}
}

// UploadDocument stores a multipart file upload for the caller's tenant.
func UploadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		level, err := model.ParseAccessLevel(c.FormValue("access_level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACCESS_LEVEL", "access_level must be tenant or private")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		doc, err := docs.Upload(c.UserContext(), f, fh.Filename, fh.Size, ct, user, level)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "failed to store document")
		}
		return c.JSON(doc)
	}
}

// ListDocuments returns every document visible to the caller.
func ListDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		visible, err := docs.ListAccessible(c.UserContext(), user)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(visible)
	}
}

// DownloadDocument streams a document's bytes with the original filename.
// Absent and non-visible documents are indistinguishable: both are 404.
func DownloadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		doc, rc, err := docs.FindForDownload(c.UserContext(), c.Params("id"), user)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "failed to read document")
		}

		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
		c.Set(fiber.HeaderContentType, doc.ContentType)
		if doc.Size > 0 {
			return c.SendStream(rc, int(doc.Size))
		}
		return c.SendStream(rc)
	}
}

// DeleteDocument removes a document; admin only, within the admin's tenant.
func DeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if err := docs.Delete(c.UserContext(), c.Params("id"), user); err != nil {
			switch {
			case errors.Is(err, service.ErrNotAuthorized):
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "only admins may delete documents")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "failed to delete document")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// APIDocs serves a Swagger UI page backed by /openapi.yaml.
func APIDocs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	}
}
