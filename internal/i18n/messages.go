package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"message.api_running":        "EcoFinds API is running!",
		"message.account_deleted":    "Account deleted successfully",
		"message.product_deleted":    "Product deleted successfully",
		"message.cart_item_added":    "Item added to cart",
		"message.cart_item_updated":  "Cart item updated",
		"message.cart_item_removed":  "Item removed from cart",
		"message.cart_cleared":       "Cart cleared",
		"message.purchase_completed": "Purchase completed successfully",
		"message.category_deleted":   "Category deleted successfully",

		"error.bad_request":               "Invalid request",
		"error.validation_failed":         "Validation failed",
		"error.unauthorized":              "Not authorized, no token",
		"error.token_invalid":             "Not authorized, token failed",
		"error.forbidden":                 "Forbidden",
		"error.not_found":                 "Not found",
		"error.route_not_found":           "Route not found",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.login_too_many":            "Too many login attempts, please try again later",
		"error.server":                    "Server error",
		"error.email_exists":              "User already exists with this email",
		"error.username_taken":            "Username already taken",
		"error.invalid_credentials":       "Invalid credentials",
		"error.user_disabled":             "Account is disabled",
		"error.user_not_found":            "User not found",
		"error.password_too_short":        "Password must be at least %d characters long",
		"error.password_upper":            "Password must contain an uppercase letter",
		"error.password_lower":            "Password must contain a lowercase letter",
		"error.password_number":           "Password must contain a number",
		"error.password_special":          "Password must contain a special character",
		"error.captcha_required":          "Captcha is required",
		"error.captcha_invalid":           "Captcha is invalid or expired",
		"error.product_not_found":         "Product not found",
		"error.product_update_denied":     "Not authorized to update this product",
		"error.product_delete_denied":     "Not authorized to delete this product",
		"error.invalid_product_status":    "Product status cannot be changed to the requested value",
		"error.category_not_found":        "Category not found",
		"error.category_exists":           "Category already exists",
		"error.category_in_use":           "Category is still referenced by products",
		"error.product_not_available":     "Product is not available",
		"error.self_purchase":             "Cannot add your own product to cart",
		"error.cart_item_not_found":       "Cart item not found",
		"error.cart_empty":                "Cart is empty",
		"error.product_unavailable_title": "Product \"%s\" is no longer available",
		"error.checkout_in_progress":      "Checkout already in progress",
		"error.purchase_not_found":        "Purchase not found",
		"error.purchase_view_denied":      "Not authorized to view this purchase",
		"error.invalid_purchase_status":   "Purchase status transition is not allowed",
		"error.admin_forbidden":           "Permission denied",
		"error.role_invalid":              "Role is empty or does not exist",
		"error.admin_not_found":           "Admin not found",

		"cart.reason_sold":        "Product has been sold",
		"cart.reason_unavailable": "Product is no longer available",

		"validation.username":          "Username must be between 3 and 30 characters",
		"validation.email":             "Please provide a valid email",
		"validation.password":          "Password must be at least 6 characters long",
		"validation.password_required": "Password is required",
		"validation.bio":               "Bio cannot exceed 500 characters",
		"validation.location":          "Location cannot exceed 100 characters",
		"validation.title":             "Title must be between 1 and 100 characters",
		"validation.description":       "Description must be between 1 and 1000 characters",
		"validation.price":             "Price must be a positive number",
		"validation.category_id":       "Please provide a valid category ID",
		"validation.condition":         "Invalid condition value",
		"validation.quantity":          "Quantity must be at least 1",
		"validation.product_id":        "Please provide a valid product ID",
		"validation.status":            "Invalid status value",
		"validation.name":              "Name must be between 1 and 50 characters",
		"validation.field_invalid":     "%s is invalid",
	},
	LocaleZH: {
		"message.api_running":        "EcoFinds API 运行中",
		"message.account_deleted":    "账号已删除",
		"message.product_deleted":    "商品已删除",
		"message.cart_item_added":    "已加入购物车",
		"message.cart_item_updated":  "购物车已更新",
		"message.cart_item_removed":  "已从购物车移除",
		"message.cart_cleared":       "购物车已清空",
		"message.purchase_completed": "购买成功",
		"message.category_deleted":   "分类已删除",

		"error.bad_request":               "请求参数错误",
		"error.validation_failed":         "参数校验失败",
		"error.unauthorized":              "未登录",
		"error.token_invalid":             "登录已失效",
		"error.forbidden":                 "无权访问",
		"error.not_found":                 "资源不存在",
		"error.route_not_found":           "接口不存在",
		"error.too_many_requests":         "请求过于频繁，请稍后再试",
		"error.login_too_many":            "登录尝试次数过多，请稍后再试",
		"error.server":                    "服务器错误",
		"error.email_exists":              "该邮箱已注册",
		"error.username_taken":            "用户名已被占用",
		"error.invalid_credentials":       "邮箱或密码错误",
		"error.user_disabled":             "账号已被禁用",
		"error.user_not_found":            "用户不存在",
		"error.password_too_short":        "密码长度至少为 %d 位",
		"error.password_upper":            "密码必须包含大写字母",
		"error.password_lower":            "密码必须包含小写字母",
		"error.password_number":           "密码必须包含数字",
		"error.password_special":          "密码必须包含特殊字符",
		"error.captcha_required":          "请输入验证码",
		"error.captcha_invalid":           "验证码错误或已过期",
		"error.product_not_found":         "商品不存在",
		"error.product_update_denied":     "无权修改该商品",
		"error.product_delete_denied":     "无权删除该商品",
		"error.invalid_product_status":    "商品状态不允许修改为该值",
		"error.category_not_found":        "分类不存在",
		"error.category_exists":           "分类已存在",
		"error.category_in_use":           "分类仍被商品引用",
		"error.product_not_available":     "商品不可购买",
		"error.self_purchase":             "不能购买自己发布的商品",
		"error.cart_item_not_found":       "购物车条目不存在",
		"error.cart_empty":                "购物车为空",
		"error.product_unavailable_title": "商品「%s」已不可购买",
		"error.checkout_in_progress":      "结算正在进行中",
		"error.purchase_not_found":        "购买记录不存在",
		"error.purchase_view_denied":      "无权查看该购买记录",
		"error.invalid_purchase_status":   "不允许的购买记录状态变更",
		"error.admin_forbidden":           "无操作权限",
		"error.role_invalid":              "角色为空或不存在",
		"error.admin_not_found":           "管理员不存在",

		"cart.reason_sold":        "商品已售出",
		"cart.reason_unavailable": "商品已下架",

		"validation.username":          "用户名长度需在 3 到 30 个字符之间",
		"validation.email":             "请输入有效的邮箱",
		"validation.password":          "密码长度至少为 6 位",
		"validation.password_required": "请输入密码",
		"validation.bio":               "简介不能超过 500 个字符",
		"validation.location":          "所在地不能超过 100 个字符",
		"validation.title":             "标题长度需在 1 到 100 个字符之间",
		"validation.description":       "描述长度需在 1 到 1000 个字符之间",
		"validation.price":             "价格不能为负数",
		"validation.category_id":       "请选择有效的分类",
		"validation.condition":         "成色取值无效",
		"validation.quantity":          "数量至少为 1",
		"validation.product_id":        "请选择有效的商品",
		"validation.status":            "状态取值无效",
		"validation.name":              "名称长度需在 1 到 50 个字符之间",
		"validation.field_invalid":     "%s 无效",
	},
}
