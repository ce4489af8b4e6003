// Package project provides the Project entity: the owner of work orders and
// of an optional default step template.
package project
