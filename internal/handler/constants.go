// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route patterns used by the chi router and for redirects.
const (
	RouteRoot   = "/"
	RouteHealth = "/health"
	RouteEvents = "/events"

	RouteAdmin       = "/admin"
	RouteLogin       = "/admin/login"
	RouteLogout      = "/admin/logout"
	RouteSections    = "/admin/sections"
	RouteSectionName = "/admin/sections/{name}"
	RouteBrand       = "/admin/brand"
	RouteLists       = "/admin/lists"
	RouteListName    = "/admin/lists/{list}"
	RouteListItem    = "/admin/lists/{list}/{id}"
	RouteOperators   = "/admin/operators"
	RouteOperatorID  = "/admin/operators/{id}"
	RouteAuditLog    = "/admin/audit"
)
