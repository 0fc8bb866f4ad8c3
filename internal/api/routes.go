package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.ServiceInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.POST("/motion", s.motionHandler.HandleMotion)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}
}
