package handler

import (
	"lokapasar/internal/usecase"
)

var (
	userHandler    *UserHandler
	productHandler *ProductHandler
	cartHandler    *CartHandler
	orderHandler   *OrderHandler
	chatHandler    *ChatHandler
	reviewHandler  *ReviewHandler
	payoutHandler  *PayoutHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	cartUseCase *usecase.CartUseCase,
	orderUseCase *usecase.OrderUseCase,
	chatUseCase *usecase.ChatUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	payoutUseCase *usecase.PayoutUseCase,
	deliveryUseCase *usecase.DeliveryUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	cartHandler = NewCartHandler(cartUseCase)
	orderHandler = NewOrderHandler(orderUseCase, deliveryUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	payoutHandler = NewPayoutHandler(payoutUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetPayoutHandler() *PayoutHandler {
	return payoutHandler
}
