package api

import "SpendLens/internal/serviceiface"

type GatewayService struct {
	config map[string]interface{}
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Stop() error {
	return nil
}

func (s *GatewayService) Start() error {
	go StartGateway(s.config)
	return nil
}
