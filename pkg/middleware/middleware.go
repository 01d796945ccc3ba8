// Package middleware 提供中间件
package middleware
