package storehub

import (
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/provider"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 门店中心接口处理器
type Handler struct {
	*provider.Container
}

// New 创建门店中心处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

var storeHubErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrInvalidOrganization, Code: response.CodeBadRequest, Key: "error.organization_required"},
	{Target: service.ErrInvalidChannel, Code: response.CodeBadRequest, Key: "error.channel_invalid"},
	{Target: service.ErrDuplicateRecord, Code: response.CodeConflict, Key: "error.channel_exists"},
}

func respondStoreHubError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, storeHubErrorRules, response.CodeInternal, "error.internal")
}
