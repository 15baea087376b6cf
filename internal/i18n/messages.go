package i18n

var messagesEN = map[string]string{
	"error.bad_request":       "Invalid request",
	"error.validation":        "Some fields are invalid",
	"error.unauthorized":      "Please sign in first",
	"error.forbidden":         "You are not allowed to do this",
	"error.not_found":         "Resource not found",
	"error.too_many_requests": "Too many requests, please try again later",
	"error.internal_error":    "Internal server error",

	"error.auth_header_missing":    "Please sign in first",
	"error.auth_header_invalid":    "Malformed authorization header",
	"error.jwt_secret_missing":     "Authentication is not configured",
	"error.token_revoked":          "Session revoked, please sign in again",
	"error.rate_limited":           "Too many requests, retry in %d seconds",
	"error.login_too_many":         "Too many sign-in attempts, retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable, please try again later",

	"error.register_failed":          "Registration failed, please try again later",
	"error.login_failed":             "Sign-in failed, please try again later",
	"error.user_exists":              "An account with this email already exists",
	"error.login_invalid":            "Incorrect email or password",
	"error.user_disabled":            "This account is disabled",
	"error.password_policy":          "Password does not meet the requirements",
	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_require_upper":   "Password must contain an uppercase letter",
	"error.password_require_lower":   "Password must contain a lowercase letter",
	"error.password_require_number":  "Password must contain a number",
	"error.password_require_special": "Password must contain a special character",
	"error.token_invalid":            "Session expired, please sign in again",
	"error.email_invalid":            "Invalid email address",
	"error.user_fetch_failed":        "Failed to load profile",

	"error.service_not_found":        "Service not found",
	"error.service_unavailable":      "This service is currently unavailable",
	"error.variant_not_found":        "Service option not found",
	"error.measurement_required":     "Please enter a measurement for this service",
	"error.measurement_out_of_range": "Measurement must be between %s and %s",
	"error.service_fetch_failed":     "Failed to load services",

	"error.cart_item_not_found":   "Cart item not found",
	"error.cart_item_exists":      "This service is already in your cart",
	"error.cart_quantity_invalid": "Invalid quantity",
	"error.cart_price_mismatch":   "The price has changed, please refresh",
	"error.cart_fetch_failed":     "Failed to load cart",
	"error.cart_update_failed":    "Failed to update cart",

	"error.booking_not_found":       "Booking not found",
	"error.booking_date_invalid":    "Invalid booking date",
	"error.booking_time_invalid":    "Invalid booking time",
	"error.booking_date_past":       "Booking date cannot be in the past",
	"error.booking_date_too_far":    "Booking date is too far in the future",
	"error.booking_amount_invalid":  "Invalid booking amount",
	"error.booking_contact_invalid": "Contact details are incomplete",
	"error.booking_not_cancellable": "This booking can no longer be cancelled",
	"error.booking_create_failed":   "Failed to create booking",
	"error.booking_fetch_failed":    "Failed to load bookings",

	"alert.title.error":           "Error",
	"alert.title.notice":          "Notice",
	"alert.login_required":        "Please sign in to add services to your cart",
	"alert.already_in_cart":       "This service is already in your cart",
	"alert.cart_load_failed":      "Failed to load cart",
	"alert.cart_add_failed":       "Failed to add service to cart",
	"alert.cart_update_failed":    "Failed to update cart",
	"alert.cart_remove_failed":    "Failed to remove item from cart",
	"alert.cart_clear_failed":     "Failed to clear cart",
	"alert.checkout_failed":       "Failed to create bookings",
	"alert.checkout_partial":      "%d of %d bookings failed, the cart was kept",
	"alert.checkout_invalid":      "Please complete the booking details",
	"alert.measurement_invalid":   "Measurement must be between %s and %s",
	"alert.measurement_required":  "Please enter a measurement for this service",
	"alert.services_load_failed":  "Failed to load services",
	"alert.sign_in_failed":        "Failed to sign in",
	"alert.checkout_empty":        "Your cart is empty",
	"alert.checkout_success":      "Booking confirmed, order %s",
	"alert.checkout_success_body": "We have received %d booking(s)",

	"notify.booking.subject":        "Booking received: %s",
	"notify.booking.customer_body":  "Hi %s,\n\nWe received your booking for %s on %s at %s.\nAddress: %s\nTotal: %s %s\nBooking number: %s\n\nThank you!",
	"notify.booking.admin_body":     "New booking %s\nService: %s\nWhen: %s %s\nCustomer: %s (%s, %s)\nAddress: %s\nTotal: %s %s",
	"notify.booking.cancel_subject": "Booking cancelled: %s",
	"notify.booking.cancel_body":    "Hi %s,\n\nYour booking %s for %s on %s at %s has been cancelled.",
}

var messagesZH = map[string]string{
	"error.bad_request":       "请求参数错误",
	"error.validation":        "部分字段不合法",
	"error.unauthorized":      "请先登录",
	"error.forbidden":         "无权执行此操作",
	"error.not_found":         "资源不存在",
	"error.too_many_requests": "请求过于频繁，请稍后再试",
	"error.internal_error":    "服务器内部错误",

	"error.auth_header_missing":    "请先登录",
	"error.auth_header_invalid":    "认证头格式错误",
	"error.jwt_secret_missing":     "认证未配置",
	"error.token_revoked":          "登录已失效，请重新登录",
	"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
	"error.login_too_many":         "登录尝试过多，请 %d 秒后重试",
	"error.rate_limit_unavailable": "限流服务不可用，请稍后再试",

	"error.register_failed":          "注册失败，请稍后重试",
	"error.login_failed":             "登录失败，请稍后重试",
	"error.user_exists":              "该邮箱已注册",
	"error.login_invalid":            "邮箱或密码错误",
	"error.user_disabled":            "账号已被禁用",
	"error.password_policy":          "密码不符合要求",
	"error.password_min_length":      "密码长度至少 %d 位",
	"error.password_require_upper":   "密码需包含大写字母",
	"error.password_require_lower":   "密码需包含小写字母",
	"error.password_require_number":  "密码需包含数字",
	"error.password_require_special": "密码需包含特殊字符",
	"error.token_invalid":            "登录已过期，请重新登录",
	"error.email_invalid":            "邮箱格式不正确",
	"error.user_fetch_failed":        "获取用户信息失败",

	"error.service_not_found":        "服务不存在",
	"error.service_unavailable":      "该服务暂不可用",
	"error.variant_not_found":        "服务规格不存在",
	"error.measurement_required":     "请填写该服务的测量值",
	"error.measurement_out_of_range": "测量值需在 %s 到 %s 之间",
	"error.service_fetch_failed":     "获取服务列表失败",

	"error.cart_item_not_found":   "购物车项不存在",
	"error.cart_item_exists":      "该服务已在购物车中",
	"error.cart_quantity_invalid": "数量不合法",
	"error.cart_price_mismatch":   "价格已变化，请刷新",
	"error.cart_fetch_failed":     "获取购物车失败",
	"error.cart_update_failed":    "更新购物车失败",

	"error.booking_not_found":       "预约不存在",
	"error.booking_date_invalid":    "预约日期不合法",
	"error.booking_time_invalid":    "预约时间不合法",
	"error.booking_date_past":       "预约日期不能早于今天",
	"error.booking_date_too_far":    "预约日期过远",
	"error.booking_amount_invalid":  "预约金额不合法",
	"error.booking_contact_invalid": "联系信息不完整",
	"error.booking_not_cancellable": "该预约已无法取消",
	"error.booking_create_failed":   "创建预约失败",
	"error.booking_fetch_failed":    "获取预约失败",

	"alert.title.error":           "错误",
	"alert.title.notice":          "提示",
	"alert.login_required":        "请先登录再添加服务",
	"alert.already_in_cart":       "该服务已在购物车中",
	"alert.cart_load_failed":      "加载购物车失败",
	"alert.cart_add_failed":       "添加到购物车失败",
	"alert.cart_update_failed":    "更新购物车失败",
	"alert.cart_remove_failed":    "移除购物车项失败",
	"alert.cart_clear_failed":     "清空购物车失败",
	"alert.checkout_failed":       "创建预约失败",
	"alert.checkout_partial":      "%d/%d 个预约创建失败，购物车已保留",
	"alert.checkout_invalid":      "请完善预约信息",
	"alert.measurement_invalid":   "测量值需在 %s 到 %s 之间",
	"alert.measurement_required":  "请填写该服务的测量值",
	"alert.services_load_failed":  "加载服务列表失败",
	"alert.sign_in_failed":        "登录失败",
	"alert.checkout_empty":        "购物车为空",
	"alert.checkout_success":      "预约成功，订单号 %s",
	"alert.checkout_success_body": "已收到 %d 个预约",

	"notify.booking.subject":        "预约已收到：%s",
	"notify.booking.customer_body":  "%s 您好：\n\n我们已收到您 %s 的预约，时间 %s %s。\n地址：%s\n金额：%s %s\n预约编号：%s\n\n感谢您的信任！",
	"notify.booking.admin_body":     "新预约 %s\n服务：%s\n时间：%s %s\n客户：%s（%s，%s）\n地址：%s\n金额：%s %s",
	"notify.booking.cancel_subject": "预约已取消：%s",
	"notify.booking.cancel_body":    "%s 您好：\n\n您的预约 %s（%s，%s %s）已取消。",
}
