package admin

import (
	"net/http"

	"github.com/ecofinds/internal/authz"
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/service"
)

type errorRule = handlershared.ErrorRule

var adminAuthErrorRules = []errorRule{
	{Target: service.ErrInvalidCredentials, Status: http.StatusUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrAdminNotFound, Status: http.StatusNotFound, Key: "error.admin_not_found"},
}

var categoryErrorRules = []errorRule{
	{Target: service.ErrCategoryNotFound, Status: http.StatusNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryExists, Status: http.StatusConflict, Key: "error.category_exists"},
	{Target: service.ErrCategoryInUse, Status: http.StatusConflict, Key: "error.category_in_use"},
}

var purchaseErrorRules = []errorRule{
	{Target: service.ErrPurchaseNotFound, Status: http.StatusNotFound, Key: "error.purchase_not_found"},
	{Target: service.ErrInvalidPurchaseStatus, Status: http.StatusBadRequest, Key: "error.invalid_purchase_status"},
}

var authzErrorRules = []errorRule{
	{Target: authz.ErrInvalidRole, Status: http.StatusBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrAdminNotFound, Status: http.StatusNotFound, Key: "error.admin_not_found"},
}
