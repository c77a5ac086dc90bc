package services

import "github.com/rafiki-work/rafiki-backend/internal/services/guidedpath"

type (
	SessionEngine      = guidedpath.SessionEngine
	CatalogService     = guidedpath.CatalogService
	ModuleAdminService = guidedpath.ModuleAdminService
	OrgConfigService   = guidedpath.OrgConfigService
	ContextPackBuilder = guidedpath.ContextPackBuilder
	Composer           = guidedpath.Composer
	TopicMemory        = guidedpath.TopicMemory
)

var (
	NewSessionEngine      = guidedpath.NewSessionEngine
	NewCatalogService     = guidedpath.NewCatalogService
	NewModuleAdminService = guidedpath.NewModuleAdminService
	NewOrgConfigService   = guidedpath.NewOrgConfigService
	NewContextPackBuilder = guidedpath.NewContextPackBuilder
	NewComposer           = guidedpath.NewComposer
	NewTopicMemory        = guidedpath.NewTopicMemory
)
