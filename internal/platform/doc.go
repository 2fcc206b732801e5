// Package platform knows where a host's upstream artifacts live and which
// tools turn them into a devkit. Unix hosts are driven through the build
// environment script and pkg-config; Windows hosts through the MSVC
// toolset and the kit catalog's library groups.
package platform
