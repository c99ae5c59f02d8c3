package public

import (
	"net/http"

	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/service"
)

type errorRule = handlershared.ErrorRule

var authErrorRules = []errorRule{
	{Target: service.ErrEmailExists, Status: http.StatusBadRequest, Key: "error.email_exists"},
	{Target: service.ErrUsernameTaken, Status: http.StatusBadRequest, Key: "error.username_taken"},
	{Target: service.ErrInvalidEmail, Status: http.StatusBadRequest, Key: "validation.email"},
	{Target: service.ErrInvalidCredentials, Status: http.StatusUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Status: http.StatusForbidden, Key: "error.user_disabled"},
}

var productReadErrorRules = []errorRule{
	{Target: service.ErrProductNotFound, Status: http.StatusNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCategoryNotFound, Status: http.StatusBadRequest, Key: "error.category_not_found"},
}

var productUpdateErrorRules = []errorRule{
	{Target: service.ErrForbidden, Status: http.StatusForbidden, Key: "error.product_update_denied"},
	{Target: service.ErrInvalidProductStatus, Status: http.StatusBadRequest, Key: "error.invalid_product_status"},
}

var productDeleteErrorRules = []errorRule{
	{Target: service.ErrForbidden, Status: http.StatusForbidden, Key: "error.product_delete_denied"},
}

var cartErrorRules = []errorRule{
	{Target: service.ErrProductNotFound, Status: http.StatusNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Status: http.StatusBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrSelfPurchase, Status: http.StatusBadRequest, Key: "error.self_purchase"},
	{Target: service.ErrCartItemNotFound, Status: http.StatusNotFound, Key: "error.cart_item_not_found"},
}

var checkoutErrorRules = []errorRule{
	{Target: service.ErrCartEmpty, Status: http.StatusBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrSelfPurchase, Status: http.StatusBadRequest, Key: "error.self_purchase"},
	{Target: service.ErrCheckoutInProgress, Status: http.StatusConflict, Key: "error.checkout_in_progress"},
}

var purchaseErrorRules = []errorRule{
	{Target: service.ErrPurchaseNotFound, Status: http.StatusNotFound, Key: "error.purchase_not_found"},
	{Target: service.ErrForbidden, Status: http.StatusForbidden, Key: "error.purchase_view_denied"},
}
