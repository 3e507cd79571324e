package chat

import "github.com/gin-gonic/gin"

// registers the chat endpoint; middleware runs after the method check
func RegisterRoutes(router gin.IRoutes, svc Answerer, middleware ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+2)
	handlers = append(handlers, RequirePOST())
	handlers = append(handlers, middleware...)
	handlers = append(handlers, Handler(svc))

	router.Any("/chat", handlers...)
}
