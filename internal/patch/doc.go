// Package patch rewrites the package.json of a freshly copied template. It
// stamps the project identity and strips the generator's own package. It then
// applies the optional features (CSS framework, Redux, Sequelize, favicon,
// Lottie) by merging dependency pins and writing their config files.
package patch
