package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           sessiond API
// @version         1.0
// @description     HTTP API backing the AI session transcript viewer.
//
// @BasePath  /
//
// @schemes http
