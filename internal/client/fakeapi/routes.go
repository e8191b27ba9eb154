package fakeapi

import "github.com/labstack/echo/v4"

func (s *Server) routes(e *echo.Echo) {
	auth := e.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/login-verification", s.loginWithCode)
	auth.POST("/signup", s.signup)
	auth.POST("/send_otp", s.sendOTP)
	auth.POST("/send-verification-code", s.sendVerificationCode)
	auth.POST("/validate-otp", s.validateOTP)
	auth.POST("/forgotpassword", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)
	auth.POST("/refresh", s.refreshTokens)
	auth.POST("/logout", s.logout, s.requireToken)

	private := e.Group("")
	private.Use(s.requireToken)

	private.GET("/knowledge_bases/list", s.listKnowledgeBases)
	private.POST("/knowledge_bases/create", s.createKnowledgeBase)
	private.PUT("/knowledge_bases/:id", s.renameKnowledgeBase)
	private.DELETE("/knowledge_bases/:id", s.deleteKnowledgeBase)

	private.GET("/api/v2/files/files/by-knowledge-base/:kb", s.listFiles)
	private.GET("/api/v2/files/:id", s.getFile)
	private.PUT("/api/v2/files/:id", s.renameFile)
	private.DELETE("/api/v2/files/:id", s.deleteFile)
	private.POST("/Index/api/index", s.uploadFiles)
	private.GET("/download/:id", s.downloadFile)

	private.GET("/chat-model/list", s.listAssistants)
	private.POST("/chat-model/create", s.createAssistant)
	private.DELETE("/chat-model/:id", s.deleteAssistant)
	private.GET("/api/v2/history/conversation/list", s.listConversations)
	private.POST("/api/v2/history/conversation/create", s.createConversation)
	private.GET("/api/v2/history/conversation/:id", s.getConversation)
	private.POST("/api/v2/history/conversation/:id/messages", s.sendMessage)

	private.GET("/api/v2/users/search", s.searchUsers)
	private.GET("/api/v2/users/:id", s.getUser)
	private.PUT("/api/v2/users/:id", s.updateUser)
	private.DELETE("/api/v2/users/:id", s.deleteUser)
}
