// Package modules declares the module configurations consumed by the
// permission registry at startup. Adding a functional area means adding its
// ModuleConfig here; the registry derives permissions, roles, and seed grants
// from these declarations.
package modules

import (
	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
)

// Role names referenced across module configs.
const (
	RoleCustomer = "Customer"
	RoleManager  = "Manager"
)

// PermissionGenerateOwnAPIToken lets a user issue and revoke their own API tokens.
const PermissionGenerateOwnAPIToken = "GenerateOwnApiToken"

// All returns every module config, in registration order.
func All() []authzDomain.ModuleConfig {
	return []authzDomain.ModuleConfig{
		apiTokenModule(),
		orderModule(),
	}
}

// apiTokenModule declares the explicit (non content-derived) permission for
// self-service API token management.
func apiTokenModule() authzDomain.ModuleConfig {
	return authzDomain.ModuleConfig{
		Name:  "apitoken",
		Group: "api",
		Roles: []string{RoleCustomer, RoleManager},
		Permissions: []authzDomain.PermissionDefinition{
			{
				Key:         PermissionGenerateOwnAPIToken,
				Description: "Can generate and revoke own API tokens",
			},
		},
		KeyGrants: []authzDomain.KeyGrant{
			{Key: PermissionGenerateOwnAPIToken, Roles: []string{RoleCustomer, RoleManager}},
		},
	}
}

// orderModule declares the Order content type, its supported actions, and the
// default role-permission matrix: customers operate on their own orders,
// managers on anyone's.
func orderModule() authzDomain.ModuleConfig {
	return authzDomain.ModuleConfig{
		Name:  "order",
		Group: "orders",
		Roles: []string{RoleCustomer, RoleManager},
		ContentTypes: []authzDomain.ContentTypeCapability{
			{
				Name: "Order",
				Actions: []authzDomain.Action{
					authzDomain.ActionAdd,
					authzDomain.ActionViewOwn,
					authzDomain.ActionViewAll,
					authzDomain.ActionEditOwn,
					authzDomain.ActionEdit,
					authzDomain.ActionRemoveOwn,
					authzDomain.ActionRemove,
				},
			},
		},
		DefaultGrants: []authzDomain.DefaultGrant{
			{ContentType: "Order", Action: authzDomain.ActionAdd, Roles: []string{RoleCustomer, RoleManager}},
			{ContentType: "Order", Action: authzDomain.ActionViewOwn, Roles: []string{RoleCustomer, RoleManager}},
			{ContentType: "Order", Action: authzDomain.ActionEditOwn, Roles: []string{RoleCustomer, RoleManager}},
			{ContentType: "Order", Action: authzDomain.ActionRemoveOwn, Roles: []string{RoleCustomer}},
			{ContentType: "Order", Action: authzDomain.ActionViewAll, Roles: []string{RoleManager}},
			{ContentType: "Order", Action: authzDomain.ActionEdit, Roles: []string{RoleManager}},
			{ContentType: "Order", Action: authzDomain.ActionRemove, Roles: []string{RoleManager}},
		},
	}
}
